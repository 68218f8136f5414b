// Package types 定义 linkdiag 的公共数据模型
//
// 数据自底向上：
//
//	ProbeOutcome → SampleSeries → Stats → StabilityClass
//	                                  ↘
//	                        CheckRecord → DiagnosisResult → Report
//
// SampleSeries / Stats / StabilityClass 只在一次探测中存在，
// 随后折叠为一条 CheckRecord 追加到会话的 HealthLedger。
package types

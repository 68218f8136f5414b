package types

// RootCause 根因标识
type RootCause string

const (
	RootCauseNone                RootCause = ""
	RootCauseLinkDown            RootCause = "link-down"
	RootCauseAdapterMissing      RootCause = "adapter-missing"
	RootCauseRemoteUnreachable   RootCause = "remote-termination-unreachable"
	RootCauseAuthFailed          RootCause = "authentication-failed"
	RootCauseCredentialsMissing  RootCause = "credentials-unavailable"
	RootCauseSessionIfaceAbsent  RootCause = "session-interface-absent"
	RootCauseExternalUnreachable RootCause = "external-reachability-failed"
	RootCauseLinkUnstable        RootCause = "link-unstable"
	RootCauseAllPassed           RootCause = "all-checks-passed"
)

// DiagnosisResult 诊断结果
//
// WorkingComponents / ProblemAreas 由台账逐条扫描得到，
// RootCause 由优先级规则表唯一选出，两条路径互不影响。
type DiagnosisResult struct {
	WorkingComponents []string  `json:"working_components"`
	ProblemAreas      []string  `json:"problem_areas"`
	RootCause         RootCause `json:"root_cause"`
	Title             string    `json:"title"`
	Explanation       string    `json:"explanation"`
	Guidance          []string  `json:"guidance"`
}

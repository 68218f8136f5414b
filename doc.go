// Package linkdiag 宽带接入链路诊断工具
//
// linkdiag 自底向上检查一条宽带接入链路：主机系统、网卡与物理链路、
// 点对点会话认证、会话接口、连通性与 DNS，以及可选的扩展稳定性探测，
// 最终给出一个根因和可执行的修复建议。
//
// 快速开始：
//
//	report, err := linkdiag.Run(ctx,
//	    linkdiag.WithConfigFile("linkdiag.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Diagnosis.Title)
//
// 诊断流程：
//
//	System → Link → Auth → Session interface → Connectivity → Extended → Trace
//
// 链路断开或认证失败时流程短路，其后的检查记为 N/A。
//
// 历史会话（需启用 archive）：
//
//	reports, err := linkdiag.History(ctx, 10, linkdiag.WithArchiveDir("history"))
package linkdiag

package diagnosis

import (
	"fmt"
	"strings"

	"github.com/dep2p/go-linkdiag/internal/core/ledger"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// DefaultRules 返回默认规则表（按优先级排序，最后一条为兜底）
//
// 每次调用返回新的切片，调用方可以安全地增删。
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:    types.RootCauseLinkDown,
			Title: "Physical link is down",
			Explanation: "The adapter reports no carrier on the access link. Nothing above the " +
				"physical layer can work until the cable, fibre or modem link is restored.",
			Actions: []string{
				"Check that the cable between the computer and the modem/ONT is seated at both ends.",
				"Look at the link LED on the adapter and on the modem/ONT port.",
				"Try a different cable or a different port on the modem/ONT.",
				"Power-cycle the modem/ONT and wait two minutes before re-running the diagnosis.",
			},
			Match:   failIn(types.CategoryLink),
			Narrate: narrateFailures(types.CategoryLink),
		},
		{
			ID:    types.RootCauseAdapterMissing,
			Title: "No usable network adapter",
			Explanation: "No wired adapter suitable for the access link was found, or the " +
				"selected adapter disappeared while it was being inspected.",
			Actions: []string{
				"Confirm the network adapter is enabled in the operating system.",
				"Reinstall or update the adapter driver.",
				"If a USB adapter is used, reconnect it and re-run the diagnosis.",
			},
			Match:   failIn(types.CategoryAdapter),
			Narrate: narrateFailures(types.CategoryAdapter),
		},
		{
			ID:    types.RootCauseRemoteUnreachable,
			Title: "Remote termination is unreachable",
			Explanation: "The local link is up but the optical network terminal or access " +
				"concentrator on the provider side does not answer.",
			Actions: []string{
				"Check the PON/LOS indicators on the ONT; a red or blinking LOS light means the fibre signal is lost.",
				"Power-cycle the ONT.",
				"Contact the provider and report that the line terminal does not respond.",
			},
			Match:   failIn(types.CategoryRemote),
			Narrate: narrateFailures(types.CategoryRemote),
		},
		{
			ID:    types.RootCauseAuthFailed,
			Title: "Session authentication failed",
			Explanation: "The access concentrator answered but rejected or dropped the session " +
				"during authentication.",
			Actions: []string{
				"Re-enter the username and password exactly as issued by the provider.",
				"Check that the account is active and not suspended for billing.",
				"Wait a few minutes in case a stale session is still held by the provider, then retry.",
			},
			Match:   failIn(types.CategoryAuth),
			Narrate: narrateFailures(types.CategoryAuth),
		},
		{
			ID:          types.RootCauseCredentialsMissing,
			Title:       "Session credentials are not available",
			Explanation: "No username or password is configured for the session, so authentication could not be attempted.",
			Actions: []string{
				"Configure the session username and password.",
				"If credentials are read from the environment, check LINKDIAG_SESSION_USERNAME and LINKDIAG_SESSION_PASSWORD.",
			},
			Match:   failIn(types.CategoryCredentials),
			Narrate: narrateFailures(types.CategoryCredentials),
		},
		{
			ID:    types.RootCauseSessionIfaceAbsent,
			Title: "Session interface is missing",
			Explanation: "Authentication completed but the point-to-point session interface is " +
				"absent, down or has no usable address.",
			Actions: []string{
				"Restart the dial-up connection.",
				"Check that no firewall or VPN software is blocking the session interface.",
				"Re-run the diagnosis; if the interface keeps disappearing, report it to the provider.",
			},
			Match:   failIn(types.CategorySessionInterface),
			Narrate: narrateFailures(types.CategorySessionInterface),
		},
		{
			ID:    types.RootCauseExternalUnreachable,
			Title: "Internet destinations are unreachable",
			Explanation: "The session is up but traffic does not reach external hosts or names " +
				"do not resolve.",
			Actions: []string{
				"Try a different DNS server, for example 1.1.1.1 or 8.8.8.8.",
				"Temporarily disable local firewall or proxy software and retry.",
				"If the gateway answers but external hosts do not, report an upstream routing problem to the provider.",
			},
			Match:   failIn(types.CategoryConnectivity, types.CategoryDNS),
			Narrate: narrateFailures(types.CategoryConnectivity, types.CategoryDNS),
		},
		{
			ID:    types.RootCauseLinkUnstable,
			Title: "Connection is unstable",
			Explanation: "Connectivity works but repeated probes show packet loss, dropouts or " +
				"high jitter.",
			Actions: []string{
				"Run the diagnosis again at a different time of day to see whether the problem is load related.",
				"Check cables and connectors for damage; replace the patch cable.",
				"Report the loss rate and outage lengths below to the provider.",
			},
			Match:   problemIn(types.CategoryStability),
			Narrate: narrateStability,
		},
		{
			ID:          types.RootCauseAllPassed,
			Title:       "All checks passed",
			Explanation: "No fault was detected on any layer of the connection.",
			Actions: []string{
				"If problems persist, re-run the diagnosis while they occur.",
			},
			Match: always,
		},
	}
}

// narrateFailures 列出指定类别中的问题检查
func narrateFailures(cats ...types.Category) func(ledger.Snapshot) string {
	return func(s ledger.Snapshot) string {
		recs := s.Filter(func(r types.CheckRecord) bool {
			return r.Severity.IsProblem() && contains(cats, r.Category)
		})
		if len(recs) == 0 {
			return ""
		}
		parts := make([]string, 0, len(recs))
		for _, r := range recs {
			parts = append(parts, r.Name+": "+r.StatusText())
		}
		return "Observed: " + strings.Join(parts, "; ") + "."
	}
}

// narrateStability 用采样统计描述不稳定程度
func narrateStability(s ledger.Snapshot) string {
	recs := s.Filter(func(r types.CheckRecord) bool {
		return r.Category == types.CategoryStability && r.Severity.IsProblem()
	})
	parts := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.Stats == nil || r.Stats.Total == 0 {
			parts = append(parts, r.Name+": "+r.StatusText())
			continue
		}
		st := r.Stats
		parts = append(parts, fmt.Sprintf("%s: %.1f%% of %d probes answered, longest outage %d probes, jitter %.2f ms",
			r.Name, st.SuccessRatePct, st.Total, st.MaxConsecutiveFailures, st.JitterMs))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Observed: " + strings.Join(parts, "; ") + "."
}

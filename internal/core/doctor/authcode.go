package doctor

import (
	"strings"

	"github.com/dep2p/go-linkdiag/internal/core/session"
)

// authPhrases 会话建立错误码到可读短语
//
// 同时覆盖拨号错误码与 UPnP WANPPPConnection 的 LastConnectionError 取值。
var authPhrases = map[string]string{
	"691": "bad username or password",
	"651": "device or link error",
	"619": "port disconnected",
	"678": "no answer from remote",
	"815": "no answer from remote",
	"718": "session negotiation timed out",
	"720": "no PPP control protocol configured",

	"ERROR_AUTHENTICATION_FAILURE":   "bad username or password",
	"ERROR_ACCOUNT_DISABLED":         "account disabled",
	"ERROR_ACCOUNT_EXPIRED":          "account expired",
	"ERROR_PASSWORD_EXPIRED":         "password expired",
	"ERROR_RESTRICTED_LOGON_HOURS":   "logon not permitted at this time",
	"ERROR_NO_CARRIER":               "device or link error",
	"ERROR_TOO_MANY_LINE_ERRORS":     "device or link error",
	"ERROR_NO_ANSWER":                "no answer from remote",
	"ERROR_ISP_TIME_OUT":             "no answer from remote",
	"ERROR_ISP_DISCONNECT":           "port disconnected",
	"ERROR_FORCED_DISCONNECT":        "port disconnected",
	"ERROR_IDLE_DISCONNECT":          "port disconnected",
	"ERROR_USER_DISCONNECT":          "port disconnected",
	"ERROR_SERVER_OUT_OF_RESOURCES":  "access concentrator out of resources",
	"ERROR_IP_CONFIGURATION":         "address negotiation failed",
	"ERROR_NOT_ENABLED_FOR_INTERNET": "account not enabled for internet access",

	session.CodeInterfaceMissing: "session interface never appeared",
	session.CodeInterfaceDown:    "session interface stayed down",
}

// AuthPhrase 返回错误码对应的短语，未知错误码返回 "error <code>"
func AuthPhrase(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "unknown error"
	}
	if p, ok := authPhrases[strings.ToUpper(code)]; ok {
		return p
	}
	return "error " + code
}

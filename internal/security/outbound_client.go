package security

import (
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
)

// NewOutboundClient はIdPなど外部サービス呼び出し用のHTTPクライアントを生成する。
// safeurlによりhttps/443以外への接続と、DNS解決後にプライベート・ループバック・
// リンクローカル（メタデータIPを含む）となる宛先への接続を拒否する。
// timeoutは1リクエスト全体の上限で、IdPが応答しない場合もそのリクエストのみが待たされる。
func NewOutboundClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("https").
		SetAllowedPorts(443).
		Build()

	return safeurl.Client(config).Client
}

package livefeed

import "time"

const (
	defaultBaseURL          = "https://live.rankedin.com"
	defaultHubPath          = "/scores"
	defaultUserAgent        = "court-live-service/1.0"
	defaultNegotiateTimeout = 10 * time.Second
	defaultInitialDelay     = 5 * time.Second
	defaultMaxDelay         = 60 * time.Second
	defaultHandshakeTimeout = 10 * time.Second
	negotiatePath           = "/negotiate?negotiateVersion=1"
	maxErrorBody            = 512
)

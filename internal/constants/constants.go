package constants

const (
	Version     = "1.0.0"
	ServiceName = "cloudflare-ddns"
	ProjectURL  = "https://github.com/Esysc/cloudflare-ddns"
)

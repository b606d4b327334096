package config

// Config holds runtime settings for the ryuin CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the upload API server.
//   - Transport: how attachments travel, "server" (proxied multipart) or
//     "presigned" (direct-to-storage).
//   - Origin: Origin header sent with inquiry requests; must be on the
//     server's allow list.
//   - Concurrency: how many files upload at once; 1 keeps the batch
//     strictly sequential.
type Config struct {
	ServerBaseURL string
	Transport     string
	Origin        string
	Concurrency   int
}

const (
	TransportServer    = "server"
	TransportPresigned = "presigned"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.Transport = TransportServer
	c.Origin = "https://ryuin.studio"
	c.Concurrency = 1
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

package portal

// Config holds the GIS portal connection settings.
type Config struct {
	// URL is the portal root, e.g. https://gis.example.com/portal.
	URL string `mapstructure:"url" default:""`
	// Username is the portal user. Empty means anonymous access.
	Username string `mapstructure:"username" default:""`
	// Password is the portal password.
	Password string `mapstructure:"password" default:""`
	// Referer is sent with token requests and every call made with the token.
	Referer string `mapstructure:"referer" default:"transmute"`
	// TimeoutSeconds bounds connection setup and waiting for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// PageSize is the number of features requested per query page. 0 uses the server maximum.
	PageSize int `mapstructure:"page_size" default:"0"`
	// TokenMinutes is the requested token lifetime.
	TokenMinutes int `mapstructure:"token_minutes" default:"60"`
}

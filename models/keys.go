package models

// KeyDef describes a recognized configuration key: its declared type, the
// default applied when neither a global entry nor an override exists, the
// closed value set (if any), and whether resolving to nothing is an error.
//
// The registry is advisory for writes — unregistered keys remain storable
// and resolvable — but Required is enforced on reads.
type KeyDef struct {
	Key           string
	Type          ValueType
	Default       *string
	AllowedValues []string
	Required      bool
}

func str(s string) *string { return &s }

// Registry lists the configuration keys the Narravo application is known to
// read, with their defaults. Defaults form the third resolution layer:
// override → global entry → default.
var Registry = map[string]KeyDef{
	"SITE.NAME":                        {Key: "SITE.NAME", Type: TypeString, Default: str("Narravo")},
	"THEME.DEFAULT":                    {Key: "THEME.DEFAULT", Type: TypeString, Default: str("light"), AllowedValues: []string{"light", "dark", "system"}},
	"FEED.LATEST-COUNT":                {Key: "FEED.LATEST-COUNT", Type: TypeInteger, Default: str("20"), Required: true},
	"PUBLIC.HOME.REVALIDATE-SECONDS":   {Key: "PUBLIC.HOME.REVALIDATE-SECONDS", Type: TypeInteger, Default: str("60")},
	"PUBLIC.ARCHIVE.PAGE-SIZE":         {Key: "PUBLIC.ARCHIVE.PAGE-SIZE", Type: TypeInteger, Default: str("20"), Required: true},
	"MODERATION.PAGE-SIZE":             {Key: "MODERATION.PAGE-SIZE", Type: TypeInteger, Default: str("20"), Required: true},
	"APPEARANCE.BANNER.ENABLED":        {Key: "APPEARANCE.BANNER.ENABLED", Type: TypeBoolean},
	"APPEARANCE.BANNER.IMAGE-URL":      {Key: "APPEARANCE.BANNER.IMAGE-URL", Type: TypeString},
	"APPEARANCE.BANNER.ALT":            {Key: "APPEARANCE.BANNER.ALT", Type: TypeString},
	"APPEARANCE.BANNER.CREDIT":         {Key: "APPEARANCE.BANNER.CREDIT", Type: TypeString},
	"APPEARANCE.BANNER.OVERLAY":        {Key: "APPEARANCE.BANNER.OVERLAY", Type: TypeJSON},
	"APPEARANCE.BANNER.FOCAL-X":        {Key: "APPEARANCE.BANNER.FOCAL-X", Type: TypeNumber, Default: str("0.5")},
	"APPEARANCE.BANNER.FOCAL-Y":        {Key: "APPEARANCE.BANNER.FOCAL-Y", Type: TypeNumber, Default: str("0.5")},
	"SITE.ABOUT-ME.ENABLED":            {Key: "SITE.ABOUT-ME.ENABLED", Type: TypeBoolean},
	"SITE.ABOUT-ME.TITLE":              {Key: "SITE.ABOUT-ME.TITLE", Type: TypeString},
	"SITE.ABOUT-ME.CONTENT":            {Key: "SITE.ABOUT-ME.CONTENT", Type: TypeString},
	"SITE.DISCLAIMER.ENABLED":          {Key: "SITE.DISCLAIMER.ENABLED", Type: TypeBoolean},
	"SITE.DISCLAIMER.TEXT":             {Key: "SITE.DISCLAIMER.TEXT", Type: TypeString},
	"SITE.DISCLAIMER.STYLE":            {Key: "SITE.DISCLAIMER.STYLE", Type: TypeJSON},
	"UPLOADS.IMAGE-MAX-BYTES":          {Key: "UPLOADS.IMAGE-MAX-BYTES", Type: TypeInteger, Default: str("10485760")},
	"UPLOADS.VIDEO-MAX-BYTES":          {Key: "UPLOADS.VIDEO-MAX-BYTES", Type: TypeInteger, Default: str("104857600")},
	"UPLOADS.VIDEO-MAX-DURATION-SECONDS": {Key: "UPLOADS.VIDEO-MAX-DURATION-SECONDS", Type: TypeInteger, Default: str("300")},
	"UPLOADS.ALLOWED-MIME-IMAGE":       {Key: "UPLOADS.ALLOWED-MIME-IMAGE", Type: TypeJSON, Default: str(`["image/jpeg","image/png","image/webp","image/gif"]`)},
	"UPLOADS.ALLOWED-MIME-VIDEO":       {Key: "UPLOADS.ALLOWED-MIME-VIDEO", Type: TypeJSON, Default: str(`["video/mp4","video/webm"]`)},
}

// LookupKeyDef returns the registered definition for key, if any.
func LookupKeyDef(key string) (KeyDef, bool) {
	def, ok := Registry[key]
	return def, ok
}

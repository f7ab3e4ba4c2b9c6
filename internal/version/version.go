package version

// AppVersion is stamped by the release workflow via -ldflags.
var AppVersion = "0.3.1"

// Package config loads postboard's startup configuration.
//
// # Sources
//
// Load reads three sources, later ones winning:
//
//  1. A dotenv file (".env" in the working directory unless -env names one).
//     Its variables are exported into the process environment but never
//     replace variables that are already set.
//  2. The TOML file, by default ~/.config/postboard/config.toml. A missing
//     file is not an error.
//  3. The environment variables POSTBOARD_API_URL and IMGBB_API_KEY.
//
// # TOML Format
//
//	api_base_url   = "http://127.0.0.1:8000"
//	image_host_url = "https://api.imgbb.com/1/upload"
//	image_api_key  = ""
//	cookie_db      = "~/.local/share/postboard/cookies.db"
//	log_file       = "~/.local/state/postboard/postboard.log"
//	watch_interval = "2s"
//
// Every field is optional. Values are trimmed and paths get tilde expansion.
//
// # Image Host Key
//
// The image host key is never compiled in. When no key is configured the
// client still starts; posting with an image fails with a clear message and
// posts without a new image keep working.
package config

// Package config defines configuration structures for the ytkit CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (YTKIT_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    Playlist     string
//	    Source       string
//	    Bucket       string
//	    Template     string
//	    Concurrency  int
//	    RetryBudget  int
//	    StallTimeout time.Duration
//	    Quality      string
//	    Format       string
//	    AudioOnly    bool
//	    Progress     bool
//	    Verbose      bool
//	    Limit        int
//	}
package config

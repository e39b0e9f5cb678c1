package smoketest

import (
	"runtime"
	"time"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Names   int           // Number of names to submit
	Workers int           // Number of concurrent submitters
	Timeout time.Duration // HTTP request timeout
	Prefix  string        // Prefix of generated names
	Limit   int           // Rows to fetch per leaderboard
	Verbose bool          // Log every submission
}

// DefaultConfig returns the settings used when flags are not given.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000",
		Names:   50,
		Workers: runtime.NumCPU() * 2,
		Timeout: 30 * time.Second,
		Prefix:  "smoke",
		Limit:   100,
	}
}

// Report holds run statistics.
type Report struct {
	NamesGenerated  int
	Submitted       int
	Succeeded       int
	Failed          int
	BoardsChecked   int
	EntriesVerified int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// boardEntry mirrors one row of GET /api/leaderboard.
type boardEntry struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Photo    string `json:"photo"`
	Category string `json:"category"`
	Value    int    `json:"value"`
}

type boardResponse struct {
	Category string       `json:"category"`
	Entries  []boardEntry `json:"entries"`
}

// Command qurancorpus serves the Quran corpus REST API and inspects the
// corpus datasets from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ekurt/qurancorpus/core/corpus"
	"github.com/ekurt/qurancorpus/core/engine"
	"github.com/ekurt/qurancorpus/core/ratelimit"
	"github.com/ekurt/qurancorpus/internal/api"
	"github.com/ekurt/qurancorpus/internal/loader"
	"github.com/ekurt/qurancorpus/internal/logging"
)

const version = "2.0.0"

// CLI defines the command-line interface for qurancorpus.
var CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Serve   ServeCmd   `cmd:"" help:"Start REST API server"`
	Stats   StatsCmd   `cmd:"" help:"Print corpus statistics"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// DataFlags are the dataset source options shared by commands that load
// the corpus.
type DataFlags struct {
	DB        string `help:"SQLite corpus database path" default:"./data/quran.db" type:"path" env:"QURAN_DB"`
	VersesXML string `name:"verses-xml" help:"Tanzil XML verse file (overrides DB verse table)" type:"path" env:"QURAN_VERSES_XML"`
	Roots     string `help:"Root index file (optionally .xz)" type:"path" env:"QURAN_ROOTS"`
	Frequency string `help:"Word frequency file (optionally .xz)" type:"path" env:"QURAN_FREQUENCY"`
	Primary   string `help:"Code reported for the primary translation" default:"diyanet"`
}

func (f DataFlags) load() (*corpus.Corpus, error) {
	if f.DB == "" && f.VersesXML == "" {
		return nil, fmt.Errorf("no verse source: provide --db or --verses-xml")
	}
	ds := loader.Load(loader.Config{
		DBPath:            f.DB,
		VersesXML:         f.VersesXML,
		RootsPath:         f.Roots,
		FrequencyPath:     f.Frequency,
		PrimaryTranslator: f.Primary,
	})
	c, report := corpus.New(ds)
	if c.Stats().TotalVerses == 0 {
		return nil, fmt.Errorf("no verses loaded; check dataset paths")
	}
	if dropped := report.DroppedTranslations + report.DroppedMorphology +
		report.DroppedWordByWord + report.DroppedTransliteration +
		report.DroppedTafsir + report.DroppedRootRefs; dropped > 0 {
		logging.Warn("dropped rows with unknown verse references", "rows", dropped)
	}
	return c, nil
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	DataFlags

	Port            int           `help:"HTTP server port" default:"8080" env:"PORT"`
	RateLimit       bool          `name:"rate-limit" help:"Enable per-client rate limiting" default:"true" negatable:"" env:"RATE_LIMIT_ENABLED"`
	RateLimitMax    int           `name:"rate-limit-max" help:"Requests allowed per window" default:"100" env:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow time.Duration `name:"rate-limit-window" help:"Sliding window size" default:"1h" env:"RATE_LIMIT_WINDOW"`
	AllowedOrigins  []string      `name:"allowed-origins" help:"CORS allowed origins (empty = allow all)"`
	TLSCert         string        `name:"tls-cert" help:"TLS certificate file" type:"path"`
	TLSKey          string        `name:"tls-key" help:"TLS private key file" type:"path"`
}

func (c *ServeCmd) Run() error {
	corp, err := c.load()
	if err != nil {
		return err
	}

	rlCfg := ratelimit.DefaultConfig()
	rlCfg.Enabled = c.RateLimit
	rlCfg.MaxRequests = c.RateLimitMax
	rlCfg.Window = c.RateLimitWindow
	eng := engine.New(corp, ratelimit.New(rlCfg))

	srv := api.NewServer(eng, api.Config{
		Port:           c.Port,
		RateLimit:      rlCfg,
		AllowedOrigins: c.AllowedOrigins,
		TLS: api.TLSConfig{
			Enabled:  c.TLSCert != "" || c.TLSKey != "",
			CertFile: c.TLSCert,
			KeyFile:  c.TLSKey,
		},
	})
	return srv.Start()
}

// StatsCmd prints per-dataset corpus statistics as JSON.
type StatsCmd struct {
	DataFlags
}

func (c *StatsCmd) Run() error {
	corp, err := c.load()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(corp.Stats())
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("qurancorpus version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("qurancorpus"),
		kong.Description("Quran corpus REST API and dataset tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dgellow/sfgate/internal"
	"github.com/dgellow/sfgate/internal/config"
	"github.com/dgellow/sfgate/internal/log"
)

var BuildVersion = "dev"

func defaultConfig() map[string]any {
	return map[string]any{
		"version": config.Version,
		"server": map[string]any{
			"baseURL":        "https://app.yourcompany.com",
			"addr":           ":8080",
			"name":           "sfgate",
			"allowedOrigins": []string{"https://app.yourcompany.com"},
		},
		"callback": map[string]any{
			"path":          config.DefaultCallbackPath,
			"signInPath":    config.DefaultSignInPath,
			"verifyTimeout": "10s",
			"cookieMaxAge":  "720h",
		},
		"exchange": map[string]any{
			"enabled":         true,
			"path":            config.DefaultExchangePath,
			"shufengApiUrl":   map[string]string{"$env": "SHUFENG_API_URL"},
			"emailDomain":     "yourcompany.com",
			"allowRegister":   true,
			"languages":       []string{"en-US", "zh-Hans"},
			"jwtSecret":       map[string]string{"$env": "JWT_SECRET"},
			"accessTokenTtl":  "1h",
			"refreshTokenTtl": "720h",
			"storage":         config.StorageFirestore,
			"gcpProject":      map[string]string{"$env": "GCP_PROJECT"},
		},
	}
}

func generateDefaultConfig(path string) error {
	data, err := json.MarshalIndent(defaultConfig(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func printIssues(w io.Writer, title string, issues []config.ValidationError) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(issues))
	for _, issue := range issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "  - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "  - %s\n", issue.Message)
		}
	}
}

func validateConfig(w io.Writer, path string) error {
	result, err := config.ValidateFile(path)
	if err != nil {
		return fmt.Errorf("error during validation: %w", err)
	}

	fmt.Fprintf(w, "Validating: %s\n", path)
	printIssues(w, "Errors", result.Errors)
	printIssues(w, "Warnings", result.Warnings)

	fmt.Fprintln(w)
	switch {
	case len(result.Errors) == 0 && len(result.Warnings) == 0:
		fmt.Fprintln(w, "Result: PASS")
	case len(result.Errors) == 0:
		fmt.Fprintln(w, "Result: FAIL (warnings present)")
	default:
		fmt.Fprintln(w, "Result: FAIL")
	}

	if len(result.Errors) > 0 || len(result.Warnings) > 0 {
		return fmt.Errorf("validation failed: %d error(s), %d warning(s)", len(result.Errors), len(result.Warnings))
	}
	return nil
}

func main() {
	conf := flag.String("config", "", "path to config file (required)")
	version := flag.Bool("version", false, "print version and exit")
	help := flag.Bool("help", false, "print help and exit")
	configInit := flag.String("config-init", "", "generate default config file at specified path")
	validate := flag.Bool("validate", false, "validate config file and exit")
	flag.Parse()
	if *help {
		flag.Usage()
		return
	}
	if *version {
		fmt.Println(BuildVersion)
		return
	}
	if *configInit != "" {
		if err := generateDefaultConfig(*configInit); err != nil {
			log.LogError("Failed to generate config: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default config at: %s\n", *configInit)
		return
	}

	if *validate {
		if *conf == "" {
			fmt.Fprintf(os.Stderr, "Error: -config flag is required for validation\n")
			os.Exit(1)
		}
		if err := validateConfig(os.Stdout, *conf); err != nil {
			os.Exit(1)
		}
		return
	}

	if *conf == "" {
		fmt.Fprintf(os.Stderr, "Error: -config flag is required\n")
		fmt.Fprintf(os.Stderr, "Run with -help for usage information\n")
		os.Exit(1)
	}

	cfg, err := config.Load(*conf)
	if err != nil {
		log.LogError("Failed to load config: %v", err)
		os.Exit(1)
	}

	log.LogInfoWithFields("main", "Starting sfgate", map[string]any{
		"version": BuildVersion,
		"config":  *conf,
	})

	app, err := internal.NewSFGate(context.Background(), cfg)
	if err != nil {
		log.LogError("Failed to create sfgate: %v", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		log.LogError("Failed to run server: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/license-verifier/internal/document"
	"github.com/zombor/license-verifier/internal/extraction"
	"github.com/zombor/license-verifier/internal/ledger"
	"github.com/zombor/license-verifier/internal/scanning"
	"github.com/zombor/license-verifier/internal/verification"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// A missing .env is fine
	_ = godotenv.Load()

	fs := ff.NewFlagSet("license-verifier")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		dbPath        = fs.StringLong("db", "license-verifier.db", "Verification database file path")
		ledgerPath    = fs.StringLong("ledger", "patterns.db", "Pattern ledger file path")
		ledgerDriver  = fs.StringLong("ledger-driver", "bolt", "Pattern ledger store: 'bolt' or 'sqlite'")
		storagePath   = fs.StringLong("storage", "./uploads", "Storage directory path")
		ocrType       = fs.StringLong("ocr", "tesseract", "OCR engine: 'tesseract', 'gemini' or 'ollama'")
		tessLang      = fs.StringLong("tesseract-lang", "eng", "Comma separated Tesseract languages")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama vision model name")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		required      = fs.StringLong("required-fields", "license_number,expiry_date,name", "Comma separated required fields")
		classes       = fs.StringLong("acceptable-classes", "A,B,C,LMV,MCWG", "Comma separated acceptable license classes")
		minConfidence = fs.Float64Long("min-confidence", 85, "Minimum overall OCR confidence (advisory)")
		thName        = fs.Float64Long("threshold-name", 75, "Confidence threshold for the name")
		thNumber      = fs.Float64Long("threshold-license-number", 70, "Confidence threshold for the license number")
		thExpiry      = fs.Float64Long("threshold-expiry-date", 75, "Confidence threshold for the expiry date")
		thClass       = fs.Float64Long("threshold-license-class", 75, "Confidence threshold for the license class")
		verifyPath    = fs.StringLong("verify", "", "Verify a single document, print the decision as JSON and exit")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("LICENSE_VERIFIER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	requirements := verification.Requirements{
		RequiredFields: splitList(*required),
		FieldConfidenceThresholds: map[string]float64{
			extraction.FieldName:          *thName,
			extraction.FieldLicenseNumber: *thNumber,
			extraction.FieldExpiryDate:    *thExpiry,
			extraction.FieldLicenseClass:  *thClass,
		},
		AcceptableClasses:    splitList(*classes),
		MinOverallConfidence: *minConfidence,
	}

	// Initialize pattern ledger
	slog.Info("Initializing pattern ledger...", "driver", *ledgerDriver, "path", *ledgerPath)
	var store ledger.Store
	var err error
	switch *ledgerDriver {
	case "bolt":
		store, err = ledger.NewBoltStore(*ledgerPath)
	case "sqlite":
		store, err = ledger.NewSQLiteStore(*ledgerPath)
	default:
		slog.Error("Invalid ledger driver", "driver", *ledgerDriver, "valid", "bolt or sqlite")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Failed to open ledger store", "error", err)
		os.Exit(1)
	}
	patterns, err := ledger.New(store)
	if err != nil {
		slog.Error("Failed to load pattern ledger", "error", err)
		os.Exit(1)
	}
	defer patterns.Close()

	// Initialize recognizer based on type
	var recognizer scanning.Recognizer
	switch *ocrType {
	case "tesseract":
		slog.Info("Initializing Tesseract recognizer...", "languages", *tessLang)
		recognizer = scanning.NewTesseract(splitList(*tessLang)...)
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini recognizer...", "model", *geminiModel)
		recognizer, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama recognizer...", "url", *ollamaURL, "model", *ollamaModel)
		recognizer, err = scanning.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid OCR type", "type", *ocrType, "valid", "tesseract, gemini or ollama")
		os.Exit(1)
	}
	defer recognizer.Close()

	engine := verification.NewEngine(
		recognizer,
		extraction.NewExtractor(extraction.LicenseSpecs(), patterns),
		verification.NewValidator(requirements),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *verifyPath != "" {
		code := verifyOnce(ctx, engine, *verifyPath)
		recognizer.Close()
		patterns.Close()
		os.Exit(code)
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := document.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	files, err := document.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	service := document.NewService(db, engine, files, patterns)
	server := document.NewServer(service, document.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	})

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	if err := server.Run(ctx, addr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shutting down...")
}

// verifyOnce prints the decision for one driver's license and returns the exit code
func verifyOnce(ctx context.Context, engine *verification.Engine, path string) int {
	decision := engine.Verify(ctx, path)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(decision); err != nil {
		slog.Error("Failed to encode decision", "error", err)
		return 1
	}
	if decision.Status == verification.StatusError {
		return 1
	}
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

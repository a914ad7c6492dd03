package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"

	"spectroscan/db"
	"spectroscan/ingest"
	"spectroscan/ir"
	"spectroscan/models"
	"spectroscan/predict"
	"spectroscan/reference"
	"spectroscan/utils"
)

func referenceTablePath() string {
	return utils.GetEnv("REFERENCE_TABLE", "data/ir_correlation_table.csv")
}

// setupEngine loads the reference table and, when a model bundle is
// available, the compound classifier. A missing classifier is not fatal:
// peak correlation works without it.
func setupEngine() error {
	refStore = reference.NewStore(referenceTablePath())
	if err := refStore.Load(); err != nil {
		return fmt.Errorf("failed to load reference table: %v", err)
	}

	modelDir := utils.GetEnv("MODEL_DIR", "models")
	onnx, err := predict.NewOnnxClassifier(predict.DefaultOnnxConfig(modelDir))
	if err != nil {
		log.Printf("[setup] classifier unavailable, continuing without prediction: %v", err)
		return nil
	}

	classifier = onnx
	scaler = onnx.Scaler()
	return nil
}

func analyze(filePath string) {
	if err := setupEngine(); err != nil {
		fmt.Println("error:", err)
		return
	}

	raw, err := ingest.ReadFile(filePath)
	if err != nil {
		fmt.Println("error reading spectrum:", err)
		return
	}

	table, _ := refStore.Snapshot()
	result, err := ir.Analyze(raw, table, irConfig)
	if err != nil {
		fmt.Println("error analyzing spectrum:", err)
		return
	}

	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	fmt.Printf("\n%d points, %d peaks detected\n\n", len(result.Spectrum), len(result.Peaks))

	for _, line := range result.Report.RenderLines() {
		green.Println(line)
	}

	if len(result.Report.Unmatched) > 0 {
		fmt.Println()
		for _, p := range result.Report.Unmatched {
			yellow.Printf("unmatched peak at %.2f cm⁻¹ (absorbance %.4f)\n", p.Wavenumber, p.Absorbance)
		}
	}

	if classifier == nil {
		fmt.Println("\nno classifier loaded, skipping compound prediction")
		return
	}

	features := predict.BuildFeatures(result.Spectrum, scaler)
	pred, err := classifier.Predict(features)
	if err != nil {
		fmt.Println("\nprediction failed:", err)
		return
	}

	fmt.Println()
	green.Printf("predicted compound: %s (confidence %.2f)\n", pred.Label, pred.Confidence)
}

func serve(protocol, port string) {
	protocol = strings.ToLower(protocol)

	if err := setupEngine(); err != nil {
		log.Fatalf("setup error: %v", err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/analyze", handleAnalyze)
	mux.HandleFunc("/api/reference", handleReference)
	mux.HandleFunc("/api/reference/reload", handleReferenceReload)
	mux.HandleFunc("/api/history", handleHistory)
	mux.HandleFunc("/api/stats", handleStats)

	mux.Handle("/", http.FileServer(http.Dir("static")))

	handler := requestLogger(corsMiddleware(mux))

	log.Printf("starting server on port %s (%s)\n", port, protocol)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(rec, r)

		// skip noisy static file logs
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Printf("[http] %s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func erase() {
	dbClient, err := db.NewDBClient()
	if err != nil {
		fmt.Printf("error creating DB client: %v\n", err)
		return
	}
	defer dbClient.Close()

	if err := dbClient.DeleteAll(); err != nil {
		fmt.Printf("error clearing history: %v\n", err)
		return
	}
	fmt.Println("analysis history cleared")
}

func stats() {
	table, err := reference.LoadFile(referenceTablePath())
	if err != nil {
		fmt.Printf("error loading reference table: %v\n", err)
		return
	}

	dbClient, err := db.NewDBClient()
	if err != nil {
		fmt.Printf("error creating DB client: %v\n", err)
		return
	}
	defer dbClient.Close()

	total, _ := dbClient.TotalAnalyses()
	records, _ := dbClient.RecentAnalyses(10)

	fmt.Printf("reference ranges: %d (%d skipped rows)\n", table.Len(), table.Skipped)
	fmt.Printf("bond types: %s\n", strings.Join(table.BondTypes(), ", "))
	fmt.Printf("stored analyses: %d\n", total)

	if len(records) > 0 {
		fmt.Println("\nrecent analyses:")
		for _, rec := range records {
			printRecord(rec)
		}
	}
}

func printRecord(rec models.AnalysisRecord) {
	compound := rec.Compound
	if compound == "" {
		compound = "(no prediction)"
	}
	fmt.Printf("\t- %s: %s, %d peaks, %d matches (%s)\n",
		rec.Filename, compound, rec.PeakCount, rec.MatchCount,
		rec.AnalyzedAt.Format(time.RFC3339))
}

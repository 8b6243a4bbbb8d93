package main

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/config"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/events/kafka"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/history"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/interfaces"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/ledger"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/models"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/request"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/storage/memory"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/storage/postgres"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/summarizer"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	var store interfaces.LedgerStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("Failed to open postgres connection", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Error("Failed to ping postgres", "error", err)
			os.Exit(1)
		}
		store = postgres.NewPostgresLedgerStore(db)
		log.Info("Using postgres ledger store")
	} else {
		store = memory.NewMemoryLedgerStore()
		log.Info("Using in-memory ledger store")
	}

	ledgerService := ledger.NewLedger(store)

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, request.EventTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("Publishing request events to kafka", "brokers", cfg.KafkaBrokers)
	}

	modelCost, err := decimal.NewFromString(cfg.ModelCost)
	if err != nil {
		log.Error("MODEL_COST must be a decimal number", "error", err, "MODEL_COST", cfg.ModelCost)
		os.Exit(1)
	}

	var stages summarizer.Stages
	modelName := "extractive-summarizer"
	if cfg.OpenAIAPIKey != "" {
		stages, err = summarizer.NewOpenAIStages(summarizer.OpenAIConfig{
			APIKey:         cfg.OpenAIAPIKey,
			MaxInputLength: cfg.MaxInputLength,
		})
		if err != nil {
			log.Error("Failed to initialize OpenAI summarizer", "error", err)
			os.Exit(1)
		}
		modelName = "openai-summarizer"
	} else {
		stages = summarizer.NewExtractiveStages(cfg.MaxInputLength)
	}

	model, err := summarizer.NewModel(modelName, "1.0", modelCost, stages)
	if err != nil {
		log.Error("Failed to build summarization model", "error", err)
		os.Exit(1)
	}
	log.Info("Summarization model is ready", "model", modelName, "cost", modelCost)

	processor := request.NewProcessor(ledgerService, publisher, log)
	requestHistory := history.New()

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	http.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Email          string          `json:"email"`
			PasswordHash   string          `json:"password_hash"`
			Name           string          `json:"name"`
			InitialBalance decimal.Decimal `json:"initial_balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		user, err := models.NewUser(req.Email, req.PasswordHash, req.Name, models.RoleUser)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := ledgerService.CreateAccount(r.Context(), user.ID(), req.InitialBalance); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		log.Info("User registered", "userID", user.ID(), "email", user.Email())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(user.View())
	})

	http.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			UserID         string          `json:"user_id"`
			InitialBalance decimal.Decimal `json:"initial_balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			http.Error(w, "user_id is a mandatory field", http.StatusBadRequest)
			return
		}

		err := ledgerService.CreateAccount(r.Context(), req.UserID, req.InitialBalance)
		switch {
		case err == ledger.ErrDuplicateAccount:
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case err == ledger.ErrInvalidAmount:
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		log.Info("Account created", "userID", req.UserID, "initialBalance", req.InitialBalance)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"Created Account"}`))
	})

	deposit := func(admin bool) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}

			var req struct {
				UserID      string          `json:"user_id"`
				Amount      decimal.Decimal `json:"amount"`
				Description string          `json:"description"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}

			var err error
			if admin {
				err = ledgerService.AdminDeposit(r.Context(), req.UserID, req.Amount, req.Description)
			} else {
				err = ledgerService.Deposit(r.Context(), req.UserID, req.Amount, req.Description)
			}
			if err == ledger.ErrInvalidAmount {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			log.Info("Deposit applied", "userID", req.UserID, "amount", req.Amount, "admin", admin)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"status":"Created Deposit"}`))
		}
	}
	http.HandleFunc("/accounts/deposit", deposit(false))
	http.HandleFunc("/admin/deposit", deposit(true))

	http.HandleFunc("/accounts/balance", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is a mandatory field", http.StatusBadRequest)
			return
		}

		balance, err := ledgerService.GetBalance(userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		response := struct {
			UserID  string          `json:"user_id"`
			Balance decimal.Decimal `json:"balance"`
		}{
			UserID:  userID,
			Balance: balance,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	http.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var (
			transactions []models.Transaction
			err          error
		)
		if userID := r.URL.Query().Get("user_id"); userID != "" {
			transactions, err = ledgerService.TransactionHistory(userID)
		} else {
			transactions, err = ledgerService.AllTransactions()
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		views := make([]models.TransactionView, 0, len(transactions))
		for _, tx := range transactions {
			views = append(views, tx.View())
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(views)
	})

	http.HandleFunc("/summarize", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			UserID   string `json:"user_id"`
			Filename string `json:"filename"`
			Text     string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			http.Error(w, "user_id is a mandatory field", http.StatusBadRequest)
			return
		}

		// Text extraction happens upstream in a real deployment; the demo
		// layer accepts the extracted text directly.
		document := models.NewPDFDocument(req.Filename, "", int64(len(req.Text)))
		document.SetExtractedText(req.Text)

		summReq, err := request.New(req.UserID, document, model)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := processor.Process(r.Context(), summReq); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		requestHistory.Add(summReq)

		log.Info("Summarization request finished",
			"requestID", summReq.ID(),
			"userID", req.UserID,
			"status", summReq.Status())

		status := http.StatusCreated
		if summReq.Status() == request.StatusInsufficientFunds {
			status = http.StatusPaymentRequired
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(summReq.View())
	})

	http.HandleFunc("/requests", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is a mandatory field", http.StatusBadRequest)
			return
		}

		limit := 0
		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			parsed, err := strconv.Atoi(rawLimit)
			if err != nil || parsed < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		requests := requestHistory.Recent(userID, limit)
		views := make([]request.RequestView, 0, len(requests))
		for _, entry := range requests {
			views = append(views, entry.View())
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(views)
	})

	http.HandleFunc("/requests/successful", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is a mandatory field", http.StatusBadRequest)
			return
		}

		requests := requestHistory.Successful(userID)
		views := make([]request.RequestView, 0, len(requests))
		for _, entry := range requests {
			views = append(views, entry.View())
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(views)
	})

	http.HandleFunc("/models/active", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		model.SetActive(req.Active)
		log.Info("Model activation toggled", "model", model.Name(), "active", req.Active)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Model  string `json:"model"`
			Active bool   `json:"active"`
		}{Model: model.Name(), Active: model.IsActive()})
	})

	log.Info("Starting server", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

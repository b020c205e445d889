package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jsphweid/kalimbatab/constants"
	"github.com/jsphweid/kalimbatab/db"
	"github.com/jsphweid/kalimbatab/file"
	"github.com/jsphweid/kalimbatab/model"
	"github.com/jsphweid/kalimbatab/phrase"
	"github.com/jsphweid/kalimbatab/tab"
)

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("dynamo-endpoint", "", "DynamoDB endpoint for storing conversions (empty disables storage)")
	viper.BindPFlag(constants.KeyServeAddr, serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag(constants.KeyDynamoEndpoint, serveCmd.Flags().Lookup("dynamo-endpoint"))
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves conversions over HTTP",
	Long: `Serve accepts tab text on POST /convert and answers with the kalimba lines.
When a DynamoDB endpoint is configured every conversion is stored and can be
fetched again from GET /convert/{id}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(constants.GetServeAddr(), constants.GetDynamoEndpoint())
	},
}

// ConversionStore persists finished conversions.
type ConversionStore interface {
	Put(ctx context.Context, c model.Conversion) error
	Get(ctx context.Context, id string) (model.Conversion, error)
}

type server struct {
	// nil when conversions are not persisted
	store ConversionStore
	opts  phrase.Options
	newID func() string
	now   func() time.Time
}

// NewRouter builds the HTTP API. store may be nil.
func NewRouter(store ConversionStore, opts phrase.Options, allowedOrigins []string) http.Handler {
	s := &server{
		store: store,
		opts:  opts,
		newID: func() string { return uuid.New().String() },
		now:   time.Now,
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/convert", s.handleConvert).Methods(http.MethodPost)
	router.HandleFunc("/convert/{id}", s.handleGetConversion).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(router)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var input model.ConvertRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Could not decode request body: "+err.Error())
		return
	}

	lines, err := file.Lines(strings.NewReader(input.Text))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	blocks, err := tab.Extract(lines)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rendered, err := phrase.RenderAll(blocks, s.opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res := model.ConvertResponse{Lines: rendered}
	if res.Lines == nil {
		res.Lines = []string{}
	}
	if s.store != nil {
		c := model.Conversion{ID: s.newID(), CreatedAt: s.now().UTC(), Source: input.Text, Lines: res.Lines}
		if err := s.store.Put(r.Context(), c); err != nil {
			slog.Error("storing conversion failed", "id", c.ID, "err", err)
			writeError(w, http.StatusInternalServerError, "Could not store conversion")
			return
		}
		res.ID = c.ID
	}
	slog.Debug("converted tab", "blocks", len(blocks), "id", res.ID)
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleGetConversion(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Conversions are not stored by this server")
		return
	}
	id := mux.Vars(r)["id"]
	c, err := s.store.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No conversion with id "+id)
		return
	}
	if err != nil {
		slog.Error("loading conversion failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Could not load conversion")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func serve(addr, endpoint string) error {
	var store ConversionStore
	if endpoint != "" {
		s, err := db.NewStore(endpoint, constants.GetDynamoRegion(), constants.GetDynamoTable())
		if err != nil {
			return err
		}
		store = s
		slog.Info("storing conversions in DynamoDB", "endpoint", endpoint, "table", s.Table)
	}

	router := NewRouter(store, renderOptions(), constants.GetAllowedOrigins())
	slog.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, router)
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/festal/festal-backend/internal/application/analytics"
	"github.com/festal/festal-backend/internal/application/auth"
	"github.com/festal/festal-backend/internal/application/billing"
	"github.com/festal/festal-backend/internal/application/usecase"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/incentive"
	"github.com/festal/festal-backend/internal/domain/repository"
	"github.com/festal/festal-backend/internal/infrastructure/memory"
	"github.com/festal/festal-backend/internal/infrastructure/pdf"
	apphttp "github.com/festal/festal-backend/internal/interfaces/http"
	"github.com/festal/festal-backend/pkg/logger"
	"github.com/festal/festal-backend/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret  = "test-secret-key-for-unit-tests"
	deptConsul  = "コンサル事業部"
	deptTelecom = "通信事業部"
)

// fontFile fuente del repositorio, relativa al directorio del paquete.
const fontFile = "../../../assets/fonts/unifont_jp-13.0.03.ttf"

// pdfGenerator se construye una vez: cargar la fuente es lo más caro del stack.
var pdfGenerator *pdf.MarotoPDFGenerator

func TestMain(m *testing.M) {
	// misma serialización de importes que cmd/api
	decimal.MarshalJSONWithoutQuotes = true

	var err error
	pdfGenerator, err = pdf.NewMarotoPDFGenerator("Festal", pdf.WithFontFile(fontFile))
	if err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

// newTestServer arma el stack completo sobre el store en memoria con tres usuarios:
// admin/password, tanaka/tanaka-pass (user, コンサル事業部) y sato/sato-pass (user, 通信事業部).
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	hasher := password.NewHasher(bcrypt.MinCost)
	gate := access.NewGate()

	now := time.Now().UTC()
	seed := []struct{ id, username, pass, role, dept string }{
		{"u-admin", "admin", "password", entity.RoleAdmin, "管理部"},
		{"u-tanaka", "tanaka", "tanaka-pass", entity.RoleUser, deptConsul},
		{"u-sato", "sato", "sato-pass", entity.RoleUser, deptTelecom},
	}
	require.NoError(t, store.Run(context.Background(), func(r repository.Repos) error {
		for _, s := range seed {
			hash, err := hasher.Hash(s.pass)
			if err != nil {
				return err
			}
			err = r.Users.Create(context.Background(), &entity.User{
				ID: s.id, Username: s.username, Email: s.username + "@festal.jp",
				PasswordHash: hash, Role: s.role, Department: s.dept,
				CreatedAt: now, UpdatedAt: now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	}))

	authUC := auth.NewAuthUseCase(store, auth.NewPasswordVerifier(store, hasher), auth.TokenConfig{
		Secret: testSecret, Issuer: "festal-test", TTL: 30 * time.Minute,
	})
	summaryUC := analytics.NewSummaryUseCase(store, gate)

	app := apphttp.NewApp(apphttp.AppConfig{Name: "festal-test", RequestTimeout: 5 * time.Second}, logger.Nop())
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(store, gate, hasher),
		SalesUC:       usecase.NewSalesUseCase(store, gate),
		PerformanceUC: usecase.NewPerformanceUseCase(store, gate, incentive.NewRule(decimal.RequireFromString("0.10"), nil, nil)),
		BillingUC:     billing.NewBillingUseCase(store, gate, nil),
		InvoicePDF:    billing.NewPDFUseCase(store, gate, pdfGenerator),
		SummaryUC:     summaryUC,
		ServiceName:   "Festal API",
	})
	return &testServer{app: app, store: store}
}

// do lanza la petición y devuelve el status y el cuerpo crudo.
func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// doJSON igual que do pero decodifica el cuerpo a un mapa.
func (s *testServer) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	status, raw := s.do(t, method, path, token, body)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), "cuerpo: %s", raw)
	return status, m
}

func (s *testServer) login(t *testing.T, username, pass string) string {
	t.Helper()
	status, body := s.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": pass,
	})
	require.Equal(t, http.StatusOK, status, "login %s: %v", username, body)
	return body["access_token"].(string)
}

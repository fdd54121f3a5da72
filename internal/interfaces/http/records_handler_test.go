package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sales
// ──────────────────────────────────────────────────────────────────────────────

func createSale(t *testing.T, s *testServer, token string, amount, cost int, owner string) map[string]any {
	t.Helper()
	status, body := s.doJSON(t, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"project_name":  "基幹刷新",
		"customer_name": "ACME",
		"amount":        amount,
		"cost":          cost,
		"delivery_date": "2024-03-15",
		"owner_id":      owner,
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	return body
}

func TestSales_ProfitYResumenMensual(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")

	created := createSale(t, s, admin, 1000000, 600000, "u-tanaka")
	status, got := s.doJSON(t, http.MethodGet, "/api/v1/sales/"+created["id"].(string), admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 400000, got["profit"])
	assert.Equal(t, deptConsul, got["department"])

	createSale(t, s, admin, 2000000, 1200000, "u-tanaka")

	status, sum := s.doJSON(t, http.MethodGet, "/api/v1/sales/summary/monthly?month=2024-03", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3000000, sum["total_amount"])
	assert.EqualValues(t, 1800000, sum["total_cost"])
	assert.EqualValues(t, 1200000, sum["total_profit"])
	assert.EqualValues(t, 2, sum["project_count"])
}

func TestSales_ResumenMesVacio(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")

	status, sum := s.doJSON(t, http.MethodGet, "/api/v1/sales/summary/monthly?month=2030-01", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, sum["total_amount"])
	assert.EqualValues(t, 0, sum["project_count"])
}

func TestSales_MesInvalido(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")

	status, body := s.doJSON(t, http.MethodGet, "/api/v1/sales/summary/monthly?month=2024-13", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestSales_UserNoPuedeEscribir(t *testing.T) {
	s := newTestServer(t)
	member := s.login(t, "tanaka", "tanaka-pass")

	status, body := s.doJSON(t, http.MethodPost, "/api/v1/sales", member, map[string]any{
		"project_name": "x", "customer_name": "y", "amount": 1, "cost": 0, "delivery_date": "2024-03-01",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestSales_OtroDepartamentoProhibido(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")
	created := createSale(t, s, admin, 100, 50, "u-tanaka")

	other := s.login(t, "sato", "sato-pass")
	status, _ := s.doJSON(t, http.MethodGet, "/api/v1/sales/"+created["id"].(string), other, nil)
	assert.Equal(t, http.StatusForbidden, status)

	member := s.login(t, "tanaka", "tanaka-pass")
	status, _ = s.doJSON(t, http.MethodGet, "/api/v1/sales/"+created["id"].(string), member, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestSales_BodyInvalido(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")

	status, body := s.doJSON(t, http.MethodPost, "/api/v1/sales", admin, "no-es-un-objeto")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", body["code"])
}

func TestSales_NoEncontrada(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")

	status, body := s.doJSON(t, http.MethodGet, "/api/v1/sales/no-existe", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Users + Performance
// ──────────────────────────────────────────────────────────────────────────────

func TestUsers_EliminarReferenciadoConflicto(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")

	status, _ := s.doJSON(t, http.MethodPost, "/api/v1/performance", admin, map[string]any{
		"user_id": "u-sato", "month": "2024-03", "sales_amount": 500000,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := s.doJSON(t, http.MethodDelete, "/api/v1/users/u-sato", admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])

	status, _ = s.doJSON(t, http.MethodGet, "/api/v1/users/u-sato", admin, nil)
	assert.Equal(t, http.StatusOK, status, "el usuario debe seguir existiendo")
}

func TestUsers_ListaSoloAdmin(t *testing.T) {
	s := newTestServer(t)
	member := s.login(t, "tanaka", "tanaka-pass")
	status, _ := s.doJSON(t, http.MethodGet, "/api/v1/users", member, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.doJSON(t, http.MethodGet, "/api/v1/users/u-tanaka", member, nil)
	assert.Equal(t, http.StatusOK, status, "un user puede leer su propio registro")

	admin := s.login(t, "admin", "password")
	status, body := s.doJSON(t, http.MethodGet, "/api/v1/users?role=user&limit=10", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 2)
}

func TestPerformance_DuplicadoYResumen(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")

	payload := map[string]any{"user_id": "u-tanaka", "month": "2024-03", "sales_amount": 1000000}
	status, created := s.doJSON(t, http.MethodPost, "/api/v1/performance", admin, payload)
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 100000, created["incentive_amount"])

	status, _ = s.doJSON(t, http.MethodPost, "/api/v1/performance", admin, payload)
	assert.Equal(t, http.StatusConflict, status)

	status, list := s.doJSON(t, http.MethodGet, "/api/v1/performance/user/u-tanaka", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list["items"], 1)

	status, sum := s.doJSON(t, http.MethodGet, "/api/v1/performance/summary/department", admin, nil)
	require.Equal(t, http.StatusOK, status)
	items := sum["items"].([]any)
	require.Len(t, items, 1)
	row := items[0].(map[string]any)
	assert.Equal(t, deptConsul, row["department"])
	assert.EqualValues(t, 1, row["member_count"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Billing
// ──────────────────────────────────────────────────────────────────────────────

func createInvoice(t *testing.T, s *testServer, token, number, status string) map[string]any {
	t.Helper()
	code, body := s.doJSON(t, http.MethodPost, "/api/v1/billing", token, map[string]any{
		"invoice_number": number,
		"customer_name":  "ACME",
		"amount":         1100000,
		"issue_date":     "2024-03-31",
		"due_date":       "2024-04-30",
		"status":         status,
	})
	require.Equal(t, http.StatusCreated, code, "%v", body)
	return body
}

func TestBilling_UserSinAcceso(t *testing.T) {
	s := newTestServer(t)
	member := s.login(t, "tanaka", "tanaka-pass")
	status, _ := s.doJSON(t, http.MethodGet, "/api/v1/billing", member, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestBilling_NumeroDuplicado(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")
	createInvoice(t, s, admin, "INV-2024-001", "issued")

	status, body := s.doJSON(t, http.MethodPost, "/api/v1/billing", admin, map[string]any{
		"invoice_number": "INV-2024-001", "customer_name": "Otro", "amount": 1,
		"issue_date": "2024-03-01", "due_date": "2024-03-31",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestBilling_TransicionPagoYEnvio(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")
	inv := createInvoice(t, s, admin, "INV-2024-002", "issued")
	path := "/api/v1/billing/" + inv["id"].(string)

	status, _ := s.doJSON(t, http.MethodPut, path, admin, map[string]any{"payment_status": "paid"})
	assert.Equal(t, http.StatusConflict, status, "未入金から入金済への直接変更はできません")

	status, _ = s.doJSON(t, http.MethodPut, path, admin, map[string]any{"payment_status": "partial"})
	require.Equal(t, http.StatusOK, status)
	status, _ = s.doJSON(t, http.MethodPut, path, admin, map[string]any{"payment_status": "paid"})
	require.Equal(t, http.StatusOK, status)

	status, sent := s.doJSON(t, http.MethodPost, path+"/send", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, sent["notified"])
	assert.Equal(t, "sent", sent["billing"].(map[string]any)["status"])

	status, sum := s.doJSON(t, http.MethodGet, "/api/v1/billing/summary/monthly?month=2024-03", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1100000, sum["paid_amount"])
	assert.EqualValues(t, 1, sum["issued_count"])
}

func TestBilling_EnviarBorradorConflicto(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")
	inv := createInvoice(t, s, admin, "INV-2024-003", "draft")

	status, _ := s.doJSON(t, http.MethodPost, "/api/v1/billing/"+inv["id"].(string)+"/send", admin, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestBilling_PDF(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")
	inv := createInvoice(t, s, admin, "INV-2024-004", "issued")

	status, raw := s.do(t, http.MethodGet, "/api/v1/billing/"+inv["id"].(string)+"/pdf", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, len(raw) > 4 && string(raw[:4]) == "%PDF")
}

func TestBilling_FlujoDeAprobacion(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")
	inv := createInvoice(t, s, admin, "INV-2024-005", "draft")
	assert.Equal(t, "pending", inv["approval_status"])
	path := "/api/v1/billing/" + inv["id"].(string)

	status, body := s.doJSON(t, http.MethodPut, path, admin, map[string]any{"status": "issued"})
	assert.Equal(t, http.StatusConflict, status, "承認前の発行: %v", body)

	status, body = s.doJSON(t, http.MethodPost, path+"/reject", admin, map[string]any{"reason": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "reason: 差戻し理由を入力してください", body["message"])

	status, body = s.doJSON(t, http.MethodPost, path+"/reject", admin, map[string]any{"reason": "金額を確認してください"})
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "rejected", body["approval_status"])
	assert.Equal(t, "金額を確認してください", body["rejection_reason"])

	status, _ = s.doJSON(t, http.MethodPost, path+"/approve", admin, nil)
	assert.Equal(t, http.StatusConflict, status, "差戻し済みは再申請までは承認できない")

	status, body = s.doJSON(t, http.MethodPost, path+"/resubmit", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", body["approval_status"])

	status, body = s.doJSON(t, http.MethodPost, path+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", body["approval_status"])
	assert.Equal(t, "u-admin", body["approved_by"])
	assert.NotEmpty(t, body["approved_at"])
	assert.Nil(t, body["rejection_reason"])

	status, body = s.doJSON(t, http.MethodPut, path, admin, map[string]any{"status": "issued"})
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "issued", body["status"])
}

func TestBilling_AprobacionEnBloque(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")
	a := createInvoice(t, s, admin, "INV-2024-006", "draft")["id"].(string)
	b := createInvoice(t, s, admin, "INV-2024-007", "draft")["id"].(string)
	issued := createInvoice(t, s, admin, "INV-2024-008", "issued")["id"].(string)

	// una ya aprobada hace fallar el lote entero
	status, _ := s.doJSON(t, http.MethodPost, "/api/v1/billing/approve", admin, map[string]any{"ids": []string{a, issued}})
	assert.Equal(t, http.StatusConflict, status)
	status, body := s.doJSON(t, http.MethodGet, "/api/v1/billing?approval_status=pending", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 2)

	status, body = s.doJSON(t, http.MethodPost, "/api/v1/billing/approve", admin, map[string]any{"ids": []string{a, b, a}})
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Len(t, body["items"], 2)

	status, body = s.doJSON(t, http.MethodGet, "/api/v1/billing?approval_status=pending", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	status, _ = s.doJSON(t, http.MethodPost, "/api/v1/billing/approve", admin, map[string]any{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, status)

	member := s.login(t, "tanaka", "tanaka-pass")
	status, _ = s.doJSON(t, http.MethodPost, "/api/v1/billing/"+a+"/approve", member, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestJSON_ImportesComoNumerosYMensajesEnJapones(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")

	_, raw := s.do(t, http.MethodPost, "/api/v1/sales", admin, map[string]any{
		"project_name": "基幹システム刷新", "customer_name": "株式会社サンプル",
		"amount": 1000000.5, "cost": 600000, "delivery_date": "2024-01-20",
	})
	assert.Contains(t, string(raw), `"amount":1000000.5`)
	assert.Contains(t, string(raw), `"profit":400000.5`)

	status, body := s.doJSON(t, http.MethodGet, "/api/v1/sales/no-existe", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "対象が見つかりません", body["message"])

	status, body = s.doJSON(t, http.MethodPost, "/api/v1/sales", admin, map[string]any{
		"project_name": "x", "customer_name": "y", "amount": 0.001, "cost": 0, "delivery_date": "2024-01-20",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "amount: 小数点以下は2桁までです", body["message"])
}

func TestListados_SobreItemsYPage(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "password")

	for _, path := range []string{"/api/v1/sales?limit=5&offset=0", "/api/v1/performance", "/api/v1/billing"} {
		status, body := s.doJSON(t, http.MethodGet, path, admin, nil)
		require.Equal(t, http.StatusOK, status, path)
		assert.Contains(t, body, "items", path)
		assert.NotNil(t, body["items"], "items vacío es [] y no null: %s", path)
		page, ok := body["page"].(map[string]any)
		require.True(t, ok, path)
		assert.Contains(t, page, "limit")
		assert.Contains(t, page, "offset")
	}
}

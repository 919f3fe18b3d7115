package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/logger"
	"github.com/educateagirl/storefront-api/pkg/types"
)

func TestWriteSuccessWritesBareBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, []map[string]string{{"hello": "world"}})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body []map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body) != 1 || body[0]["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestWriteMessageOmitsNilData(t *testing.T) {
	w := httptest.NewRecorder()
	WriteMessage(w, http.StatusCreated, nil)

	if got := w.Code; got != http.StatusCreated {
		t.Fatalf("expected status 201 but got %d", got)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"message":"success"}` {
		t.Fatalf("unexpected body %s", got)
	}

	w = httptest.NewRecorder()
	WriteMessage(w, http.StatusOK, map[string]int{"id": 7})
	var body types.MessageEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != types.MessageSuccess || body.Data.(map[string]any)["id"] != float64(7) {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Code)
	}
	if body.Error != "bad input" {
		t.Fatalf("unexpected message %s", body.Error)
	}
	if body.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorNotFoundKeepsMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, errors.New("record not found"), "Product not found"))

	if got := w.Code; got != http.StatusNotFound {
		t.Fatalf("expected status 404 but got %d", got)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Product not found" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestWriteErrorSanitizesInternalErrors(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: &buf})

	w := httptest.NewRecorder()
	cause := fmt.Errorf("pq: relation %q does not exist", "products")
	WriteError(context.Background(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "list products"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", body.Code)
	}
	if strings.Contains(body.Error, "relation") {
		t.Fatalf("internal detail leaked to client: %s", body.Error)
	}
	if body.Details != nil {
		t.Fatalf("details should be omitted for internal errors")
	}
	if !strings.Contains(buf.String(), "relation") {
		t.Fatalf("expected the full chain to be logged, got %s", buf.String())
	}
}

func TestWriteErrorDefaultsToInternalForUntypedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}
}

func TestDumpFieldsOnlyCarriesDatabaseFieldsWhenPresent(t *testing.T) {
	fields := dumpFields(pkgerrors.Dump(errors.New("plain")), http.StatusInternalServerError)
	if _, ok := fields["pg_code"]; ok {
		t.Fatalf("unexpected pg fields for a plain error: %v", fields)
	}

	fields = dumpFields(pkgerrors.ErrorDump{TopMessage: "dup", PGCode: "23505", PGConstraint: "products_pkey"}, http.StatusConflict)
	if fields["pg_constraint"] != "products_pkey" || fields["status"] != http.StatusConflict {
		t.Fatalf("unexpected fields %v", fields)
	}
}

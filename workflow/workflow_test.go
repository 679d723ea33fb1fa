package workflow

import (
	"errors"
	"io"
	"testing"

	"barangay-backend/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Test identities. Barangay 1 is the "from" side of relocations, 2 the "to"
// side, 9 an uninvolved unit.
var (
	resident      = Actor{ID: "res-1", Role: models.RoleResident, BarangayID: 1}
	otherResident = Actor{ID: "res-2", Role: models.RoleResident, BarangayID: 1}
	admin         = Actor{ID: "adm-1", Role: models.RoleAdmin, BarangayID: 1}
	toAdmin       = Actor{ID: "adm-2", Role: models.RoleAdmin, BarangayID: 2}
	outsideAdmin  = Actor{ID: "adm-9", Role: models.RoleAdmin, BarangayID: 9}
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database shared across sessions and
	// serializes concurrent transactions.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Request{}, &models.AuditEvent{}))
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type docCall struct {
	documentType string
	requesterID  string
	quantity     int
}

// fakeDocs records generation calls and can be told to fail.
type fakeDocs struct {
	err   error
	calls []docCall
}

func (f *fakeDocs) Generate(documentType, requesterID string, quantity int) (string, error) {
	f.calls = append(f.calls, docCall{documentType, requesterID, quantity})
	if f.err != nil {
		return "", f.err
	}
	return "doc-ref-1", nil
}

func newTestEngine(t *testing.T, db *gorm.DB) (*Engine, *Sink, *fakeDocs) {
	t.Helper()
	log := testLogger()
	sink := NewSink(db, log, nil)
	docs := &fakeDocs{}
	return NewEngine(db, sink, docs, log), sink, docs
}

func mustCreate(t *testing.T, e *Engine, actor Actor, kind models.Kind, raw string) *models.Request {
	t.Helper()
	req, err := e.Create(actor, kind, []byte(raw))
	require.NoError(t, err)
	return req
}

func createItemLoan(t *testing.T, e *Engine) *models.Request {
	return mustCreate(t, e, resident, models.KindItemLoan,
		`{"item_id":1,"loan_days":7,"purpose":"community event"}`)
}

func createDocumentRequest(t *testing.T, e *Engine) *models.Request {
	return mustCreate(t, e, resident, models.KindDocumentRequest,
		`{"document_type":"clearance","quantity":2,"purpose":"employment"}`)
}

func createSOSAlert(t *testing.T, e *Engine) *models.Request {
	return mustCreate(t, e, resident, models.KindSOSAlert,
		`{"emergency_type":"fire","location":"Purok 3, Main St"}`)
}

func createRelocation(t *testing.T, e *Engine) *models.Request {
	return mustCreate(t, e, resident, models.KindRelocation,
		`{"from_barangay_id":1,"to_barangay_id":2,"new_address":"12 Mabini St","reason":"new job"}`)
}

func reload(t *testing.T, db *gorm.DB, id string) *models.Request {
	t.Helper()
	var out models.Request
	require.NoError(t, db.First(&out, "id = ?", id).Error)
	return &out
}

func requireValidationError(t *testing.T, err error) *models.ValidationError {
	t.Helper()
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve
}

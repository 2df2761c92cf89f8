package document_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/document"
	documenterrors "go-leave/internal/document/errors"
	"go-leave/internal/shared/testdb"
	"go-leave/internal/sideeffect"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerateRequest(companyID string) sideeffect.GenerateRequest {
	return sideeffect.GenerateRequest{
		CompanyID:     companyID,
		RequestID:     uuid.NewString(),
		RequestNumber: "LV-000007",
		TemplateID:    sideeffect.ApprovalDocumentTemplate,
		EmployeeID:    uuid.NewString(),
		StartDate:     "2026-03-02",
		EndDate:       "2026-03-04",
		TotalDays:     3,
	}
}

func TestDocumentService_Pipeline(t *testing.T) {
	db, _ := testdb.Open(t, &document.Document{}, &document.Signature{})
	svc := document.NewService(document.NewRepository(db))
	ctx := context.Background()
	companyID := uuid.NewString()

	var _ sideeffect.DocumentPipeline = svc

	req := newGenerateRequest(companyID)
	docID, err := svc.Generate(ctx, req)
	require.NoError(t, err)

	t.Run("generate is idempotent per request and template", func(t *testing.T) {
		again, err := svc.Generate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, docID, again)
	})

	t.Run("initial content is a pdf", func(t *testing.T) {
		content, err := svc.Content(ctx, companyID, docID)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(content, []byte("%PDF-1.4")))
		assert.True(t, bytes.HasSuffix(content, []byte("%%EOF")))
		assert.Contains(t, string(content), "LV-000007")
		assert.Contains(t, string(content), "Signatures: none")
	})

	before, err := svc.Get(ctx, companyID, docID)
	require.NoError(t, err)

	managerID := uuid.NewString()
	hrID := uuid.NewString()
	require.NoError(t, svc.AddSignature(ctx, docID, managerID, "DIRECT_MANAGER", "data:image/png;base64,AAAA"))
	require.NoError(t, svc.AddSignature(ctx, docID, hrID, "HR", ""))

	t.Run("signatures are listed in order", func(t *testing.T) {
		got, err := svc.Get(ctx, companyID, docID)
		require.NoError(t, err)
		assert.Equal(t, document.StatusSigned, got.Status)
		require.Len(t, got.Signatures, 2)
		assert.Equal(t, managerID, got.Signatures[0].SignerID)
		assert.True(t, got.Signatures[0].Signed)
		assert.False(t, got.Signatures[1].Signed)
		assert.NotEqual(t, before.VerificationCode, got.VerificationCode)

		content, err := svc.Content(ctx, companyID, docID)
		require.NoError(t, err)
		assert.Contains(t, string(content), "DIRECT_MANAGER "+managerID)
	})

	t.Run("verification qr", func(t *testing.T) {
		qr, err := svc.VerificationQR(ctx, companyID, docID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(qr.VerificationCode, "LEAVE-DOC:"+docID))
		assert.True(t, strings.HasPrefix(qr.QRCodeImage, "data:image/png;base64,"))
	})

	t.Run("other tenant cannot read", func(t *testing.T) {
		_, err := svc.Get(ctx, uuid.NewString(), docID)
		assert.ErrorIs(t, err, documenterrors.ErrDocumentNotFound)
	})

	t.Run("unknown document", func(t *testing.T) {
		err := svc.AddSignature(ctx, uuid.NewString(), managerID, "HR", "")
		assert.ErrorIs(t, err, documenterrors.ErrDocumentNotFound)
	})
}

func TestDocumentHandler_Download(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _ := testdb.Open(t, &document.Document{}, &document.Signature{})
	svc := document.NewService(document.NewRepository(db))
	companyID := uuid.NewString()
	docID, err := svc.Generate(context.Background(), newGenerateRequest(companyID))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/documents/"+docID+"/pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: docID}}
	c.Set("company_id", companyID)

	document.NewHandler(svc).Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/documents/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	c.Set("company_id", companyID)

	document.NewHandler(svc).Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

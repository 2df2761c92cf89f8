// Package document renders leave approval documents and collects approver signatures.
package document

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	documenterrors "go-leave/internal/document/errors"
	"go-leave/internal/sideeffect"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const documentTitle = "Leave Approval"

//go:generate mockgen -source=document_service.go -destination=mock/document_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, req sideeffect.GenerateRequest) (string, error)
	AddSignature(ctx context.Context, documentID, actorID, role, signature string) error

	Get(ctx context.Context, companyID, id string) (DocumentResponse, error)
	Content(ctx context.Context, companyID, id string) ([]byte, error)
	VerificationQR(ctx context.Context, companyID, id string) (VerificationQRResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("document.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.service")
	}
	return &service{repo: repo, logger: l, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Generate(ctx context.Context, req sideeffect.GenerateRequest) (string, error) {
	existing, err := s.repo.FindByRequestTemplate(ctx, req.RequestID, req.TemplateID)
	if err == nil {
		return existing.ID.String(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return "", err
	}
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		return "", err
	}

	header := []string{
		"Request: " + req.RequestNumber,
		"Employee: " + req.EmployeeID,
		fmt.Sprintf("Period: %s to %s (%d working days)", req.StartDate, req.EndDate, req.TotalDays),
	}
	doc := &Document{
		CompanyID:  companyID,
		RequestID:  requestID,
		TemplateID: req.TemplateID,
		Status:     StatusGenerated,
		Header:     header,
		Content:    renderPDF(documentTitle, append(header, "", "Signatures: none")),
	}
	created, err := s.repo.CreateIfMissing(ctx, doc)
	if err != nil {
		return "", err
	}
	if !created {
		// lost a race with another consumer
		existing, err := s.repo.FindByRequestTemplate(ctx, req.RequestID, req.TemplateID)
		if err != nil {
			return "", err
		}
		return existing.ID.String(), nil
	}

	s.logger.Info("document generated",
		zap.String("document_id", doc.ID.String()),
		zap.String("leave_request_id", req.RequestID),
		zap.String("template_id", req.TemplateID),
	)
	return doc.ID.String(), nil
}

func (s *service) AddSignature(ctx context.Context, documentID, actorID, role, signature string) error {
	doc, err := s.repo.FindByIDUnscoped(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return documenterrors.ErrDocumentNotFound
		}
		return err
	}
	signerID, err := uuid.Parse(actorID)
	if err != nil {
		return documenterrors.ErrInvalidSigner
	}

	if err := s.repo.AddSignature(ctx, &Signature{
		DocumentID: doc.ID,
		SignerID:   signerID,
		SignerRole: role,
		Signature:  signature,
		SignedAt:   s.now(),
	}); err != nil {
		return err
	}

	sigs, err := s.repo.ListSignatures(ctx, documentID)
	if err != nil {
		return err
	}
	return s.repo.UpdateContent(ctx, documentID, StatusSigned, renderPDF(documentTitle, documentLines(doc.Header, sigs)))
}

func documentLines(header []string, sigs []Signature) []string {
	lines := append([]string{}, header...)
	lines = append(lines, "", "Signatures:")
	for i, sig := range sigs {
		mark := "approved"
		if sig.Signature != "" {
			mark = "signed"
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s (%s) at %s", i+1, sig.SignerRole, sig.SignerID, mark, sig.SignedAt.UTC().Format(time.RFC3339)))
	}
	return lines
}

func (s *service) find(ctx context.Context, companyID, id string) (*Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, documenterrors.ErrDocumentNotFound
	}
	doc, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, documenterrors.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *service) Get(ctx context.Context, companyID, id string) (DocumentResponse, error) {
	doc, err := s.find(ctx, companyID, id)
	if err != nil {
		return DocumentResponse{}, err
	}
	sigs, err := s.repo.ListSignatures(ctx, id)
	if err != nil {
		return DocumentResponse{}, err
	}

	resp := DocumentResponse{
		ID:               doc.ID.String(),
		RequestID:        doc.RequestID.String(),
		TemplateID:       doc.TemplateID,
		Status:           doc.Status,
		VerificationCode: verificationCode(doc),
		Signatures:       make([]SignatureResponse, len(sigs)),
		CreatedAt:        doc.CreatedAt.UTC().Format(time.RFC3339),
	}
	for i, sig := range sigs {
		resp.Signatures[i] = SignatureResponse{
			SignerID:   sig.SignerID.String(),
			SignerRole: sig.SignerRole,
			Signed:     sig.Signature != "",
			SignedAt:   sig.SignedAt.UTC().Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *service) Content(ctx context.Context, companyID, id string) ([]byte, error) {
	doc, err := s.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return doc.Content, nil
}

func (s *service) VerificationQR(ctx context.Context, companyID, id string) (VerificationQRResponse, error) {
	doc, err := s.find(ctx, companyID, id)
	if err != nil {
		return VerificationQRResponse{}, err
	}
	code := verificationCode(doc)
	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		s.logger.Error("qr encode failed", zap.String("document_id", id), zap.Error(err))
		return VerificationQRResponse{}, err
	}
	return VerificationQRResponse{
		VerificationCode: code,
		QRCodeImage:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// verificationCode changes whenever the rendered content does.
func verificationCode(doc *Document) string {
	sum := sha256.Sum256(doc.Content)
	return fmt.Sprintf("LEAVE-DOC:%s:%s", doc.ID, hex.EncodeToString(sum[:8]))
}

package documenterrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrDocumentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Document not found",
		http.StatusNotFound,
	)
	ErrInvalidSigner = apperror.New(
		apperror.CodeInvalidInput,
		"invalid signer id",
		http.StatusBadRequest,
	)
)

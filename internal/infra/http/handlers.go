package http

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"seguraassina/internal/config"
	"seguraassina/internal/domain"
	"seguraassina/internal/usecase"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type generateKeysRequest struct {
	KeySize *int `json:"key_size"`
}

type generateKeysResponse struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
	KeySize    int    `json:"key_size"`
}

type signRequest struct {
	Document   string `json:"document"`
	PrivateKey string `json:"private_key"`
}

type signResponse struct {
	Signature    string `json:"signature"`
	Hash         string `json:"hash"`
	Algorithm    string `json:"algorithm"`
	DocumentSize int    `json:"document_size"`
}

type verifyRequest struct {
	Document  string `json:"document"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
}

type hashRequest struct {
	Document string `json:"document"`
}

type hashResponse struct {
	Hash         string `json:"hash"`
	Algorithm    string `json:"algorithm"`
	DocumentSize int    `json:"document_size"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Service: config.ServiceName,
		Version: config.ServiceVersion,
	})
}

func (s *Server) handleGenerateKeys(c *gin.Context) {
	var req generateKeysRequest
	// The body is optional; an empty one selects the default key size.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeBindError(c, err)
		return
	}
	size := int(domain.DefaultKeySize)
	if req.KeySize != nil {
		size = *req.KeySize
		if size == 0 {
			writeError(c, fmt.Errorf("%w: key size must be 2048 or 4096 bits, got 0", domain.ErrInvalidParameter))
			return
		}
	}
	// The cost depends on the requested size, so the body is read first.
	if !s.enforceRateLimit(c, domain.OperationGenerateKeys, domain.KeySize(size)) {
		return
	}

	pair, err := s.generateUC.Execute(c.Request.Context(), usecase.GenerateKeysRequest{KeySize: size})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, generateKeysResponse{
		PublicKey:  pair.PublicKey,
		PrivateKey: pair.PrivateKey,
		KeySize:    int(pair.KeySize),
	})
}

func (s *Server) handleSign(c *gin.Context) {
	if !s.enforceRateLimit(c, domain.OperationSign, 0) {
		return
	}
	var req signRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeBindError(c, err)
		return
	}
	if req.Document == "" {
		writeError(c, missingField("document"))
		return
	}
	if req.PrivateKey == "" {
		writeError(c, missingField("private_key"))
		return
	}
	document, err := s.decodeDocument(req.Document)
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := s.signUC.Execute(c.Request.Context(), usecase.SignDocumentRequest{
		Document:   document,
		PrivateKey: req.PrivateKey,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, signResponse{
		Signature:    resp.SignatureBase64(),
		Hash:         resp.Digest.Hex(),
		Algorithm:    resp.Algorithm,
		DocumentSize: resp.DocumentSize,
	})
}

func (s *Server) handleVerify(c *gin.Context) {
	if !s.enforceRateLimit(c, domain.OperationVerify, 0) {
		return
	}
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeBindError(c, err)
		return
	}
	switch {
	case req.Document == "":
		writeError(c, missingField("document"))
		return
	case req.Signature == "":
		writeError(c, missingField("signature"))
		return
	case req.PublicKey == "":
		writeError(c, missingField("public_key"))
		return
	}
	document, err := s.decodeDocument(req.Document)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := s.verifyUC.Execute(c.Request.Context(), usecase.VerifyDocumentRequest{
		Document:  document,
		Signature: req.Signature,
		PublicKey: req.PublicKey,
	})
	// An unparseable public key is a verification outcome, not a request error.
	if err != nil && !errors.Is(err, domain.ErrMalformedKey) {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHash(c *gin.Context) {
	if !s.enforceRateLimit(c, domain.OperationDigest, 0) {
		return
	}
	var req hashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeBindError(c, err)
		return
	}
	if req.Document == "" {
		writeError(c, missingField("document"))
		return
	}
	document, err := s.decodeDocument(req.Document)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := s.digestUC.Execute(c.Request.Context(), document)
	c.JSON(http.StatusOK, hashResponse{
		Hash:         resp.Digest.Hex(),
		Algorithm:    resp.Algorithm,
		DocumentSize: resp.DocumentSize,
	})
}

func (s *Server) handleNoRoute(c *gin.Context) {
	writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
}

func (s *Server) decodeDocument(encoded string) ([]byte, error) {
	if int64(base64.StdEncoding.DecodedLen(len(encoded))) > s.maxDocumentBytes+2 {
		return nil, s.tooLarge()
	}
	document, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: document is not valid base64", domain.ErrMalformedInput)
	}
	if int64(len(document)) > s.maxDocumentBytes {
		return nil, s.tooLarge()
	}
	return document, nil
}

func (s *Server) tooLarge() error {
	return fmt.Errorf("%w: document exceeds the %d byte limit", domain.ErrDocumentTooLarge, s.maxDocumentBytes)
}

func (s *Server) writeBindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(c, s.tooLarge())
		return
	}
	writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "request body must be valid JSON")
}

func missingField(name string) error {
	return fmt.Errorf("%w: field %q is required", domain.ErrMalformedInput, name)
}

func writeError(c *gin.Context, err error) {
	code := domain.ErrorCode(err)
	switch code {
	case "INVALID_PARAMETER", "MALFORMED_KEY", "MALFORMED_INPUT":
		writeErrorCode(c, http.StatusBadRequest, code, err.Error())
	case "DOCUMENT_TOO_LARGE":
		writeErrorCode(c, http.StatusRequestEntityTooLarge, code, err.Error())
	case "NOT_FOUND":
		writeErrorCode(c, http.StatusNotFound, code, err.Error())
	default:
		_ = c.Error(err)
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Message: message})
}

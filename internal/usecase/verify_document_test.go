package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"seguraassina/internal/domain"
	"seguraassina/internal/infra/crypto"
)

func TestVerifyDocument_HelloWorldScenario(t *testing.T) {
	pair := testPair(t)
	signer := &SignDocument{}
	signed, err := signer.Execute(context.Background(), SignDocumentRequest{Document: []byte("hello world"), PrivateKey: pair.PrivateKey})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	metrics := newMetricsStub()
	sink := &auditSinkStub{}
	uc := &VerifyDocument{Audit: NewAuditEmitter(sink, fixedClock), Metrics: metrics}
	result, err := uc.Execute(context.Background(), VerifyDocumentRequest{
		Document:  []byte("hello world"),
		Signature: signed.SignatureBase64(),
		PublicKey: pair.PublicKey,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	want := domain.VerificationResult{Valid: true, Reason: domain.ReasonOK}
	want.HashCalculated, _ = domain.ParseDigest("b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9")
	if result != want {
		t.Fatalf("unexpected result: %+v", result)
	}
	if metrics.reasons[domain.ReasonOK] != 1 {
		t.Fatalf("expected OK verification counted, got %v", metrics.reasons)
	}
	if event := sink.last(t); event.Reason != domain.ReasonOK || event.Result != domain.AuditResultSuccess {
		t.Fatalf("unexpected audit event: %+v", event)
	}
}

func TestVerifyDocument_InvalidKeyIsReportedAsData(t *testing.T) {
	metrics := newMetricsStub()
	uc := &VerifyDocument{Metrics: metrics}
	doc := []byte("document")
	result, err := uc.Execute(context.Background(), VerifyDocumentRequest{
		Document:  doc,
		Signature: "AAAA",
		PublicKey: "not a key",
	})
	if !errors.Is(err, domain.ErrMalformedKey) {
		t.Fatalf("expected ErrMalformedKey, got %v", err)
	}
	if result.Valid || result.Reason != domain.ReasonInvalidKey {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.HashCalculated != crypto.Digest(doc) {
		t.Fatal("digest must be populated even when the key is invalid")
	}
	if metrics.reasons[domain.ReasonInvalidKey] != 1 {
		t.Fatalf("expected INVALID_KEY counted, got %v", metrics.reasons)
	}
}

func TestVerifyDocument_RejectionIsNotAnError(t *testing.T) {
	pair := testPair(t)
	other, err := crypto.GenerateKeyPair(domain.KeySize2048)
	if err != nil {
		t.Fatalf("generate second pair: %v", err)
	}
	signed, err := (&SignDocument{}).Execute(context.Background(), SignDocumentRequest{Document: []byte("original"), PrivateKey: pair.PrivateKey})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	cases := []struct {
		name   string
		doc    string
		sig    string
		pubKey string
		reason domain.ReasonCode
	}{
		{name: "tampered", doc: "altered", sig: signed.SignatureBase64(), pubKey: pair.PublicKey, reason: domain.ReasonIntegrityViolation},
		{name: "wrong key", doc: "original", sig: signed.SignatureBase64(), pubKey: other.PublicKey, reason: domain.ReasonIntegrityViolation},
		{name: "bad encoding", doc: "original", sig: "***", pubKey: pair.PublicKey, reason: domain.ReasonInvalidSignature},
	}
	uc := &VerifyDocument{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), VerifyDocumentRequest{Document: []byte(tc.doc), Signature: tc.sig, PublicKey: tc.pubKey})
			if err != nil {
				t.Fatalf("rejection must not surface as error: %v", err)
			}
			if result.Valid || result.Reason != tc.reason {
				t.Fatalf("unexpected result: %+v", result)
			}
		})
	}
}

func TestVerifyDocument_Parallel(t *testing.T) {
	pair := testPair(t)
	signed, err := (&SignDocument{}).Execute(context.Background(), SignDocumentRequest{Document: []byte("shared"), PrivateKey: pair.PrivateKey})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	metrics := newMetricsStub()
	uc := &VerifyDocument{Metrics: metrics, Audit: NewAuditEmitter(&auditSinkStub{}, nil)}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Execute(context.Background(), VerifyDocumentRequest{Document: []byte("shared"), Signature: signed.SignatureBase64(), PublicKey: pair.PublicKey})
		}()
	}
	wg.Wait()
	if metrics.reasons[domain.ReasonOK] != 8 {
		t.Fatalf("expected 8 OK verifications, got %v", metrics.reasons)
	}
}

func TestVerifyDocument_UndersizedKeyIsInvalidKey(t *testing.T) {
	uc := &VerifyDocument{}
	result, err := uc.Execute(context.Background(), VerifyDocumentRequest{
		Document:  []byte("hello world"),
		Signature: smallKeySignature,
		PublicKey: smallPublicKeyPEM,
	})
	if !errors.Is(err, domain.ErrMalformedKey) {
		t.Fatalf("expected ErrMalformedKey, got %v", err)
	}
	if result.Valid || result.Reason != domain.ReasonInvalidKey {
		t.Fatalf("expected INVALID_KEY rather than an integrity verdict, got %+v", result)
	}
}

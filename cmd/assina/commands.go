package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"seguraassina/internal/domain"
	"seguraassina/internal/usecase"

	"github.com/spf13/cobra"
)

type keyPairOutput struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
	KeySize    int    `json:"key_size"`
}

type signOutput struct {
	Signature    string `json:"signature"`
	Hash         string `json:"hash"`
	Algorithm    string `json:"algorithm"`
	DocumentSize int    `json:"document_size"`
}

type digestOutput struct {
	Hash         string `json:"hash"`
	Algorithm    string `json:"algorithm"`
	DocumentSize int    `json:"document_size"`
}

func newKeygenCmd() *cobra.Command {
	var (
		size       int
		privateOut string
		publicOut  string
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an RSA key pair",
		Long: `Generate an RSA key pair of 2048 or 4096 bits.

The private key is written as PKCS#1 PEM and the public key as PKIX PEM.
Without --private-out and --public-out both keys are printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (privateOut == "") != (publicOut == "") {
				return errors.New("--private-out and --public-out must be given together")
			}
			uc := &usecase.GenerateKeys{}
			pair, err := uc.Execute(cmd.Context(), usecase.GenerateKeysRequest{KeySize: size})
			if err != nil {
				return err
			}
			if privateOut == "" {
				return writeJSON(cmd, "", keyPairOutput{
					PublicKey:  pair.PublicKey,
					PrivateKey: pair.PrivateKey,
					KeySize:    int(pair.KeySize),
				})
			}
			if err := os.WriteFile(privateOut, []byte(pair.PrivateKey), 0o600); err != nil {
				return fmt.Errorf("write private key: %w", err)
			}
			if err := os.WriteFile(publicOut, []byte(pair.PublicKey), 0o644); err != nil {
				return fmt.Errorf("write public key: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d-bit key pair to %s and %s\n", pair.KeySize, privateOut, publicOut)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", int(domain.DefaultKeySize), "key size in bits (2048 or 4096)")
	cmd.Flags().StringVar(&privateOut, "private-out", "", "path for the private key PEM")
	cmd.Flags().StringVar(&publicOut, "public-out", "", "path for the public key PEM")
	return cmd
}

func newSignCmd() *cobra.Command {
	var inPath, keyPath, outPath string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a document with a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			document, err := readInput(cmd, inPath)
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			keyPEM, err := os.ReadFile(keyPath)
			if err != nil {
				return fmt.Errorf("read private key: %w", err)
			}
			uc := &usecase.SignDocument{}
			resp, err := uc.Execute(cmd.Context(), usecase.SignDocumentRequest{
				Document:   document,
				PrivateKey: string(keyPEM),
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, outPath, signOutput{
				Signature:    resp.SignatureBase64(),
				Hash:         resp.Digest.Hex(),
				Algorithm:    resp.Algorithm,
				DocumentSize: resp.DocumentSize,
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "document to sign, - for stdin")
	cmd.Flags().StringVar(&keyPath, "key", "", "private key PEM file")
	cmd.Flags().StringVar(&outPath, "out", "", "write the signature JSON to this file")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var inPath, signature, signatureFile, pubkeyPath string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a document signature with a public key",
		Long: `Verify a document signature with a public key.

The exit status is 0 when the signature is valid, 2 when verification ran
and rejected the signature, and 1 on usage or input errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (signature == "") == (signatureFile == "") {
				return errors.New("exactly one of --signature or --signature-file is required")
			}
			if signatureFile != "" {
				raw, err := os.ReadFile(signatureFile)
				if err != nil {
					return fmt.Errorf("read signature: %w", err)
				}
				signature, err = parseSignatureFile(raw)
				if err != nil {
					return err
				}
			}
			document, err := readInput(cmd, inPath)
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			pubPEM, err := os.ReadFile(pubkeyPath)
			if err != nil {
				return fmt.Errorf("read public key: %w", err)
			}

			uc := &usecase.VerifyDocument{}
			result, keyErr := uc.Execute(cmd.Context(), usecase.VerifyDocumentRequest{
				Document:  document,
				Signature: signature,
				PublicKey: string(pubPEM),
			})
			if err := writeJSON(cmd, "", result); err != nil {
				return err
			}
			if !result.Valid {
				// The key error is part of the verdict, not a usage error.
				return &exitError{code: 2, err: keyErr}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "document to verify, - for stdin")
	cmd.Flags().StringVar(&signature, "signature", "", "base64 signature")
	cmd.Flags().StringVar(&signatureFile, "signature-file", "", "file holding a base64 signature or the JSON printed by sign")
	cmd.Flags().StringVar(&pubkeyPath, "pubkey", "", "public key PEM file")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("pubkey")
	return cmd
}

// parseSignatureFile accepts either the JSON written by sign or bare base64.
func parseSignatureFile(raw []byte) (string, error) {
	text := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(text, "{") {
		return text, nil
	}
	var doc signOutput
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return "", fmt.Errorf("parse signature file: %w", err)
	}
	if doc.Signature == "" {
		return "", errors.New("signature file has no signature field")
	}
	return doc.Signature, nil
}

func newDigestCmd() *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the SHA-256 digest of a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			document, err := readInput(cmd, inPath)
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			resp := (&usecase.DigestDocument{}).Execute(cmd.Context(), document)
			return writeJSON(cmd, "", digestOutput{
				Hash:         resp.Digest.Hex(),
				Algorithm:    resp.Algorithm,
				DocumentSize: resp.DocumentSize,
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "document to digest, - for stdin")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

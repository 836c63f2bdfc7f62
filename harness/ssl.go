// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package harness

import (
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
)

// GenCertPair generates a self-signed certificate and private key under dir
// and returns (keyPath, certPath).  These are meant for florestad's
// --ssl-key-path and --ssl-cert-path options.
func GenCertPair(dir string) (string, string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", "", err
	}

	validUntil := time.Now().Add(365 * 24 * time.Hour)
	cert, key, err := btcutil.NewTLSCertPair("florestatest autogenerated "+
		"cert", validUntil, nil)
	if err != nil {
		return "", "", err
	}

	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certPath, cert, 0666); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(keyPath, key, 0600); err != nil {
		os.Remove(certPath)
		return "", "", err
	}

	log.Infof("created TLS key at %s and certificate at %s", keyPath,
		certPath)
	return keyPath, certPath, nil
}

package backup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// deriveKey deriva la llave AES-256 de la frase configurada.
func deriveKey(passphrase string) []byte {
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}

// encryptFile cifra src con AES-GCM y escribe nonce + ciphertext en dst.
func encryptFile(src, dst, passphrase string) error {
	plain, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("leer %s: %w", src, err)
	}
	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generar nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, plain, nil)
	if err := os.WriteFile(dst, sealed, 0o600); err != nil {
		return fmt.Errorf("escribir %s: %w", dst, err)
	}
	return nil
}

// decryptFile descifra un archivo generado por encryptFile.
func decryptFile(src, dst, passphrase string) error {
	sealed, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("leer %s: %w", src, err)
	}
	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}
	if len(sealed) < gcm.NonceSize() {
		return fmt.Errorf("archivo cifrado truncado: %s", src)
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("descifrar %s: llave incorrecta o archivo dañado: %w", src, err)
	}
	if err := os.WriteFile(dst, plain, 0o600); err != nil {
		return fmt.Errorf("escribir %s: %w", dst, err)
	}
	return nil
}

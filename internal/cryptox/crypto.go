// Package cryptox implements the cryptographic pieces of the storage
// pipeline: AES-256-CBC content encryption with a fresh random IV per
// operation, the on-disk key file lifecycle, and password hashing for the
// bootstrap admin credential.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"

	"github.com/mkarulin/filevault/internal/common"
)

// IVSize is the length of the CBC initialization vector. Every stored blob
// starts with exactly this many IV bytes.
const IVSize = aes.BlockSize

const readBufferSize = 8192

// Encryptor encrypts and decrypts file content with a process-wide key
// loaded once at startup. The key is read-only after construction, so an
// Encryptor is safe for concurrent use.
type Encryptor struct {
	key []byte
}

// NewEncryptor wraps a symmetric key. The key length must be a valid AES
// key size (16, 24 or 32 bytes).
func NewEncryptor(key []byte) (*Encryptor, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: invalid key length %d", common.ErrEncryptionFailed, len(key))
	}
	return &Encryptor{key: key}, nil
}

// EncryptStream reads the whole plaintext from r through a fixed-size
// buffer and encrypts it with AES-CBC under PKCS#7 padding and a fresh
// random 16-byte IV. The IV is not secret, but it must be stored alongside
// the ciphertext and must never repeat for the same key, which the
// per-call randomization guarantees.
func (e *Encryptor) EncryptStream(r io.Reader) (ciphertext, iv []byte, err error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrEncryptionFailed, err)
	}

	var plaintext []byte
	buf := make([]byte, readBufferSize)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			plaintext = append(plaintext, buf[:n]...)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, nil, fmt.Errorf("%w: read plaintext: %v", common.ErrEncryptionFailed, rerr)
		}
	}

	iv = common.GenerateRandByteArray(IVSize)

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, iv, nil
}

// Decrypt is the inverse of EncryptStream. A key/IV/ciphertext combination
// that does not yield valid padding fails: on a well-formed system that
// means corruption or tampering, and the operation is never retried.
func (e *Encryptor) Decrypt(ciphertext, iv []byte) ([]byte, error) {
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: invalid IV length %d", common.ErrDecryptionFailed, len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d not block-aligned", common.ErrDecryptionFailed, len(ciphertext))
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padded length %d", common.ErrDecryptionFailed, len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("%w: invalid padding", common.ErrDecryptionFailed)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("%w: invalid padding", common.ErrDecryptionFailed)
		}
	}
	return data[:len(data)-padding], nil
}

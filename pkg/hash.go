package dupescan

import (
	"crypto/sha256"
	"crypto/sha3"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sys/unix"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	typeID, ok := HashTypeFromName(name)
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
	return GetHashAlgorithmByType(typeID)
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	switch typeID {
	case HashTypeSHA256:
		return &HashAlgorithm{
			Name:    HashNameSHA256,
			TypeID:  HashTypeSHA256,
			Size:    sha256.Size,
			NewFunc: sha256.New,
		}, nil
	case HashTypeSHA512_256:
		return &HashAlgorithm{
			Name:    HashNameSHA512_256,
			TypeID:  HashTypeSHA512_256,
			Size:    sha512.Size256,
			NewFunc: sha512.New512_256,
		}, nil
	case HashTypeSHA3_256:
		return &HashAlgorithm{
			Name:    HashNameSHA3_256,
			TypeID:  HashTypeSHA3_256,
			Size:    32,
			NewFunc: func() hash.Hash { return sha3.New256() },
		}, nil
	case HashTypeBLAKE2b256:
		return &HashAlgorithm{
			Name:   HashNameBLAKE2b256,
			TypeID: HashTypeBLAKE2b256,
			Size:   blake2b.Size256,
			NewFunc: func() hash.Hash {
				// only fails for keys longer than 64 bytes
				h, _ := blake2b.New256(nil)
				return h
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
	}
}

// DefaultHashAlgorithm returns the SHA-256 configuration.
func DefaultHashAlgorithm() *HashAlgorithm {
	algorithm, _ := GetHashAlgorithmByType(HashTypeSHA256)
	return algorithm
}

// HashReader streams r through the algorithm in bufferSize chunks and returns
// the fingerprint. Memory use is bounded by bufferSize regardless of input size.
// No fingerprint is returned if any read fails.
func HashReader(r io.Reader, algorithm *HashAlgorithm, bufferSize int) (Fingerprint, error) {
	return hashReaderInterruptible(r, algorithm, bufferSize, nil)
}

func hashReaderInterruptible(r io.Reader, algorithm *HashAlgorithm, bufferSize int, shutdownChan <-chan struct{}) (Fingerprint, error) {
	if algorithm == nil {
		algorithm = DefaultHashAlgorithm()
	}
	if algorithm.Size != FingerprintSize {
		return Fingerprint{}, fmt.Errorf("hash algorithm %s produces %d bytes, need %d", algorithm.Name, algorithm.Size, FingerprintSize)
	}
	if bufferSize <= 0 {
		bufferSize = DefaultHashBufferSize
	}

	hasher := algorithm.NewFunc()
	buffer := make([]byte, bufferSize)

	for {
		select {
		case <-shutdownChan:
			return Fingerprint{}, ErrInterrupted
		default:
		}

		n, err := r.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Fingerprint{}, err
		}
		if n == 0 {
			// a zero-length read with no error also ends the stream
			break
		}
	}

	var fp Fingerprint
	copy(fp[:], hasher.Sum(nil))
	return fp, nil
}

// HashFile calculates the fingerprint of a regular file, checking for shutdown
// signals between buffer reads. The file is opened non-blocking so that a path
// swapped for a FIFO after classification cannot hang the scan.
func HashFile(filePath string, algorithm *HashAlgorithm, bufferSize int, shutdownChan <-chan struct{}) (Fingerprint, int64, error) {
	file, err := os.OpenFile(filePath, os.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return Fingerprint{}, 0, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Fingerprint{}, 0, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}
	if !info.Mode().IsRegular() {
		return Fingerprint{}, 0, fmt.Errorf("%s changed to %s: %w", filePath, describeMode(info.Mode()), ErrUnsupportedType)
	}

	// Advisory only, the read loop is correct without it
	_ = unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_SEQUENTIAL)

	fp, err := hashReaderInterruptible(file, algorithm, bufferSize, shutdownChan)
	if err != nil {
		if errors.Is(err, ErrInterrupted) {
			return Fingerprint{}, 0, err
		}
		return Fingerprint{}, 0, fmt.Errorf("failed to read from file %s: %w", filePath, err)
	}

	return fp, info.Size(), nil
}

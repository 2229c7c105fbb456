package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"

	"golang.org/x/crypto/ssh"
)

// CreateSSHPublicPrivateKeyPairOnDisk writes a throwaway ed25519 key pair to
// temp files and returns the public key path, its cleanup, the private key
// path, and its cleanup.
func CreateSSHPublicPrivateKeyPairOnDisk() (string, func(), string, func()) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}

	block, err := ssh.MarshalPrivateKey(privateKey, "testutil")
	if err != nil {
		panic(err)
	}

	sshPublicKey, err := ssh.NewPublicKey(publicKey)
	if err != nil {
		panic(err)
	}

	publicKeyPath, cleanupPublicKey, err := WriteStringToTempFile(
		string(ssh.MarshalAuthorizedKey(sshPublicKey)),
	)
	if err != nil {
		panic(err)
	}

	privateKeyPath, cleanupPrivateKey, err := WriteStringToTempFile(
		string(pem.EncodeToMemory(block)),
	)
	if err != nil {
		cleanupPublicKey()
		panic(err)
	}

	return publicKeyPath, cleanupPublicKey, privateKeyPath, cleanupPrivateKey
}

// WriteStringToTempFile writes content to a temp file and returns the file
// path and a cleanup function.
func WriteStringToTempFile(content string) (string, func(), error) {
	tempFile, err := os.CreateTemp("", "temp-*")
	if err != nil {
		return "", nil, err
	}

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return "", nil, err
	}

	tempFile.Close()

	cleanup := func() {
		os.Remove(tempFile.Name())
	}

	return tempFile.Name(), cleanup, nil
}

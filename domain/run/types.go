package run

import (
	"crypto/sha256"
	"fmt"

	"smmh/domain/core"
)

// Status tracks a run through its lifecycle
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Fingerprint identifies the inputs that determine a run's outputs
type Fingerprint struct {
	InputHash      core.Hash `json:"input_hash"`
	VocabularyHash core.Hash `json:"vocabulary_hash"`
	SettingsHash   core.Hash `json:"settings_hash"`
	CodeVersion    string    `json:"code_version"`
	Fingerprint    core.Hash `json:"fingerprint"` // Hash of all above
}

// NewFingerprint creates a fingerprint from determinism parameters
func NewFingerprint(inputHash, vocabularyHash, settingsHash core.Hash, codeVersion string) Fingerprint {
	return Fingerprint{
		InputHash:      inputHash,
		VocabularyHash: vocabularyHash,
		SettingsHash:   settingsHash,
		CodeVersion:    codeVersion,
		Fingerprint:    computeFingerprint(inputHash, vocabularyHash, settingsHash, codeVersion),
	}
}

func computeFingerprint(inputHash, vocabularyHash, settingsHash core.Hash, codeVersion string) core.Hash {
	data := fmt.Sprintf("input:%s|vocabulary:%s|settings:%s|code:%s",
		inputHash, vocabularyHash, settingsHash, codeVersion)
	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}

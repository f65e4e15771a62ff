package atom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// FileDecrypt decrypts an age-armored Source into Dest using a passphrase.
// Grounded on original_source/lib/src/atoms/file/decrypt.rs: a missing
// source is not an error at plan time (ShouldRun stays true so Execute can
// surface the real failure), and a decrypt failure is recorded in
// ErrorMessage rather than treated as a hard Plan error — the rust implementation returns
// should_run=false with a warning when the passphrase is wrong or Dest
// already holds the right plaintext, rather than failing the whole run.
type FileDecrypt struct {
	base
	Source     string
	Dest       string
	Passphrase string
}

func (a *FileDecrypt) Plan(ctx context.Context) (Outcome, error) {
	if _, err := os.Stat(a.Source); os.IsNotExist(err) {
		return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("decrypt %s -> %s (source missing, will fail at apply)", a.Source, a.Dest)}}, nil
	}

	plaintext, err := a.decrypt()
	if err != nil {
		// Matches the original: a decrypt failure during planning (bad
		// passphrase, corrupt armor) does not block the run. The error is
		// kept in ErrorMessage and the atom reports nothing to do, so
		// Execute is not called for it.
		a.setError(err)
		return Outcome{ShouldRun: false}, nil
	}

	existing, err := os.ReadFile(a.Dest)
	if err == nil && bytes.Equal(existing, plaintext) {
		return Outcome{ShouldRun: false}, nil
	}
	return Outcome{ShouldRun: true, SideEffects: []string{fmt.Sprintf("decrypt %s -> %s", a.Source, a.Dest)}}, nil
}

func (a *FileDecrypt) Execute(ctx context.Context, secret string) error {
	plaintext, err := a.decrypt()
	if err != nil {
		a.setError(err)
		return err
	}
	if err := os.WriteFile(a.Dest, plaintext, 0o600); err != nil {
		a.setError(err)
		return err
	}
	a.setOutput(fmt.Sprintf("decrypted %s -> %s", a.Source, a.Dest))
	return nil
}

func (a *FileDecrypt) decrypt() ([]byte, error) {
	f, err := os.Open(a.Source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	identity, err := age.NewScryptIdentity(a.Passphrase)
	if err != nil {
		return nil, err
	}

	r, err := age.Decrypt(armor.NewReader(f), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

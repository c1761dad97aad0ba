// Command tinkeygen prints a fresh TIN encryption key in the form the
// service expects in TIN_ENCRYPTION_KEY. Generate once per deployment and
// store it in the secret manager; losing the key makes every stored TIN
// unrecoverable.
package main

import (
	"fmt"
	"log"

	"github.com/tallyworks/compliance/pkg/tincrypt"
)

func main() {
	key, err := tincrypt.GenerateKey()
	if err != nil {
		log.Fatalf("failed to generate key: %v", err)
	}

	fmt.Printf("export %s=%s\n", tincrypt.EnvKey, key)
}

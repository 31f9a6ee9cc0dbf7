package txscript

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// checkSignatureEncoding validates that sig adheres to the strict DER
// encoding rules from BIP0066, mirroring the byte-level checks the
// teacher performs before ever touching the curve (spec §4.C).
func checkSignatureEncoding(sig []byte) error {
	if len(sig) < 8 {
		return scriptError(ErrSigDER, fmt.Sprintf("malformed signature: too short: %d < 8", len(sig)))
	}
	if len(sig) > 72 {
		return scriptError(ErrSigDER, fmt.Sprintf("malformed signature: too long: %d > 72", len(sig)))
	}
	if sig[0] != 0x30 {
		return scriptError(ErrSigDER, "malformed signature: wrong type")
	}
	if int(sig[1]) != len(sig)-2 {
		return scriptError(ErrSigDER, "malformed signature: bad length")
	}

	rLen := int(sig[3])
	if rLen+5 > len(sig) {
		return scriptError(ErrSigDER, "malformed signature: S out of bounds")
	}
	sLen := int(sig[rLen+5])
	if rLen+sLen+6 != len(sig) {
		return scriptError(ErrSigDER, "malformed signature: invalid R length")
	}
	if sig[2] != 0x02 {
		return scriptError(ErrSigDER, "malformed signature: missing first integer marker")
	}
	if rLen == 0 {
		return scriptError(ErrSigDER, "malformed signature: R length is zero")
	}
	if sig[4]&0x80 != 0 {
		return scriptError(ErrSigDER, "malformed signature: R value is negative")
	}
	if rLen > 1 && sig[4] == 0x00 && sig[5]&0x80 == 0 {
		return scriptError(ErrSigDER, "malformed signature: invalid R value")
	}
	if sig[rLen+4] != 0x02 {
		return scriptError(ErrSigDER, "malformed signature: missing second integer marker")
	}
	if sLen == 0 {
		return scriptError(ErrSigDER, "malformed signature: S length is zero")
	}
	if sig[rLen+6]&0x80 != 0 {
		return scriptError(ErrSigDER, "malformed signature: S value is negative")
	}
	if sLen > 1 && sig[rLen+6] == 0x00 && sig[rLen+7]&0x80 == 0 {
		return scriptError(ErrSigDER, "malformed signature: invalid S value")
	}
	return nil
}

// checkPubKeyEncoding validates that pubKey is either a 33-byte
// compressed or 65-byte uncompressed SEC1 public key.
func checkPubKeyEncoding(pubKey []byte) error {
	switch {
	case len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03):
		return nil
	case len(pubKey) == 65 && pubKey[0] == 0x04:
		return nil
	default:
		return scriptError(ErrPubKeyFormat, "unsupported public key type")
	}
}

// checkSig pops the public key and then the signature off the data stack
// (the public key is on top, per Bitcoin's CHECKSIG convention: ... <sig>
// <pubkey> CHECKSIG), computes the signing hash for the engine's fixed
// transaction context, and verifies the ECDSA signature against it.
func (vm *Engine) checkSig() (bool, error) {
	pubKeyBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return false, err
	}
	fullSig, err := vm.dstack.PopByteArray()
	if err != nil {
		return false, err
	}
	if len(fullSig) == 0 {
		return false, nil
	}

	hashType := SigHashType(fullSig[len(fullSig)-1])
	sigBytes := fullSig[:len(fullSig)-1]

	if !hashType.isValid() {
		return false, scriptError(ErrInvalidSigHashType, fmt.Sprintf("invalid hash type 0x%x", hashType))
	}
	if err := checkSignatureEncoding(sigBytes); err != nil {
		return false, err
	}
	if err := checkPubKeyEncoding(pubKeyBytes); err != nil {
		return false, err
	}

	sigHash, err := CalcSignatureHash(vm.tx, vm.txIdx, vm.prevOuts, hashType)
	if err != nil {
		return false, err
	}

	if vm.sigCache != nil {
		if valid, ok := vm.sigCache.Get(sigHash, sigBytes, pubKeyBytes); ok {
			return valid, nil
		}
	}

	valid := verifyECDSA(sigHash[:], sigBytes, pubKeyBytes)

	if vm.sigCache != nil {
		vm.sigCache.Add(sigHash, sigBytes, pubKeyBytes, valid)
	}

	return valid, nil
}

// verifyECDSA parses a DER signature and a SEC1 public key and verifies
// the signature over hash using secp256k1 ECDSA.
func verifyECDSA(hash, derSig, pubKeyBytes []byte) bool {
	sig, err := ecdsa.ParseDERSignature(derSig)
	if err != nil {
		return false
	}
	pubKey, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pubKey)
}

package txscript

// IsWitnessCommitment reports whether script is a 34-byte OP_RETURN
// output of the form 0x6a 0x24 <32-byte commitment>, the coinbase
// witness-commitment output described in spec §6.
func IsWitnessCommitment(script []byte) bool {
	return len(script) == 34 && script[0] == OpReturn && script[1] == 0x24
}

// WitnessCommitment extracts the 32-byte commitment from a witness
// commitment script recognized by IsWitnessCommitment. The caller must
// check IsWitnessCommitment first.
func WitnessCommitment(script []byte) []byte {
	return script[2:34]
}

// IsPayToTaproot structurally recognizes a Taproot (P2TR) output script,
// OP_1 <32-byte program>, per spec §6. This is recognition only: full
// BIP341 validation is explicitly out of scope for this core.
func IsPayToTaproot(script []byte) bool {
	return len(script) == 34 && script[0] == Op1 && script[1] == 0x20
}

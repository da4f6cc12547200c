package payments

import "testing"

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	sig := ComputeSignature(secret, payload)

	if !VerifySignature(secret, payload, sig) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(secret, payload, sig+"00") {
		t.Error("tampered signature accepted")
	}
	if VerifySignature("whsec_other", payload, sig) {
		t.Error("signature accepted under wrong secret")
	}
	if VerifySignature(secret, append(payload, 'x'), sig) {
		t.Error("signature accepted for modified payload")
	}
	if VerifySignature(secret, payload, "") {
		t.Error("empty signature accepted")
	}
}

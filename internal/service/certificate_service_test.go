package service

import (
	"context"
	"errors"
	"testing"

	"foodsafe_backend/internal/util"
)

func TestIssueCertificateAssignsVerificationCode(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "CRT-01", "Butchery Hygiene")
	sess := env.mustCreateSession(t, p.ID)
	ctx := context.Background()

	first, err := env.certificates.Issue(ctx, sess.ID, IssueCertificateRequest{UserID: 3, FileReference: "certificates/a.pdf"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if first.VerificationCode == "" {
		t.Fatal("certificate issued without a verification code")
	}
	if first.IssuedAt.IsZero() {
		t.Error("certificate issued without a timestamp")
	}

	second, err := env.certificates.Issue(ctx, sess.ID, IssueCertificateRequest{UserID: 4, FileReference: "certificates/b.pdf"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if second.VerificationCode == first.VerificationCode {
		t.Error("verification codes must be unique per certificate")
	}
}

func TestIssueCertificateUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.certificates.Issue(context.Background(), 999, IssueCertificateRequest{UserID: 3, FileReference: "x.pdf"}); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestVerifyCertificate(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "CRT-02", "Knife Safety")
	sess := env.mustCreateSession(t, p.ID)

	issued, err := env.certificates.Issue(context.Background(), sess.ID, IssueCertificateRequest{UserID: 3, FileReference: "certificates/k.pdf"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	found, err := env.certificates.Verify(issued.VerificationCode)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if found.ID != issued.ID {
		t.Errorf("verify resolved certificate %d, want %d", found.ID, issued.ID)
	}

	if _, err := env.certificates.Verify("no-such-code"); !errors.Is(err, util.ErrCertificateNotFound) {
		t.Fatalf("want ErrCertificateNotFound, got %v", err)
	}
}

func TestListCertificatesForUser(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "CRT-03", "Dock Receiving")
	sess := env.mustCreateSession(t, p.ID)
	ctx := context.Background()

	for _, userID := range []uint{3, 3, 4} {
		if _, err := env.certificates.Issue(ctx, sess.ID, IssueCertificateRequest{UserID: userID, FileReference: "certificates/r.pdf"}); err != nil {
			t.Fatalf("issue: %v", err)
		}
	}

	mine, err := env.certificates.ListForUser(3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("user 3 certificates = %d, want 2", len(mine))
	}
}

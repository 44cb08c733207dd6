package credential

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

func staticCreds() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "secret",
		}, nil
	})
}

func TestNewDSQLProvider_Validation(t *testing.T) {
	ctx := context.Background()

	if _, err := NewDSQLProvider(ctx, DSQLConfig{Region: "us-east-1", Credentials: staticCreds()}); err == nil {
		t.Error("missing endpoint should fail")
	}
	if _, err := NewDSQLProvider(ctx, DSQLConfig{Endpoint: "c.dsql.us-east-1.on.aws", Credentials: staticCreds()}); err == nil {
		t.Error("missing region should fail")
	}
}

func TestDSQLProvider_Issue(t *testing.T) {
	// Presigning is local; no network call is made with static credentials.
	ctx := context.Background()
	provider, err := NewDSQLProvider(ctx, DSQLConfig{
		Endpoint:    "cluster.dsql.us-east-1.on.aws",
		Region:      "us-east-1",
		TokenTTL:    5 * time.Minute,
		Credentials: staticCreds(),
	})
	if err != nil {
		t.Fatalf("NewDSQLProvider failed: %v", err)
	}

	tok, err := provider.Issue(ctx, AdminPrincipal)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if tok.Value == "" {
		t.Fatal("token value is empty")
	}
	if !strings.Contains(tok.Value, "cluster.dsql.us-east-1.on.aws") {
		t.Errorf("token should be scoped to the cluster endpoint, got %q", tok.Value)
	}
	if !strings.Contains(tok.Value, "DbConnectAdmin") {
		t.Errorf("admin principal should receive the admin token action, got %q", tok.Value)
	}
	if tok.TTL != 5*time.Minute {
		t.Errorf("TTL = %v, want 5m", tok.TTL)
	}

	// A non-admin principal gets the regular connect action.
	tok, err = provider.Issue(ctx, "reporting")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if strings.Contains(tok.Value, "DbConnectAdmin") {
		t.Errorf("non-admin principal must not receive the admin action, got %q", tok.Value)
	}
}

func TestDSQLProvider_EmptyPrincipal(t *testing.T) {
	ctx := context.Background()
	provider, err := NewDSQLProvider(ctx, DSQLConfig{
		Endpoint:    "cluster.dsql.us-east-1.on.aws",
		Region:      "us-east-1",
		Credentials: staticCreds(),
	})
	if err != nil {
		t.Fatalf("NewDSQLProvider failed: %v", err)
	}

	if _, err := provider.Issue(ctx, ""); !errors.Is(err, ErrEmptyPrincipal) {
		t.Errorf("Issue with empty principal = %v, want ErrEmptyPrincipal", err)
	}
}

func TestClassifyIssueError(t *testing.T) {
	if err := classifyIssueError(errors.New("access denied for user")); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("denied error not classified as permission denied: %v", err)
	}
	if err := classifyIssueError(errors.New("dial tcp: connection refused")); !errors.Is(err, ErrUnreachable) {
		t.Errorf("network error not classified as unreachable: %v", err)
	}
}

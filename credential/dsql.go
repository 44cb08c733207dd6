package credential

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	dsqlauth "github.com/aws/aws-sdk-go-v2/feature/dsql/auth"
)

// AdminPrincipal is the principal that receives admin connect tokens.
const AdminPrincipal = "admin"

// DefaultTokenTTL is the token lifetime requested from the signer.
const DefaultTokenTTL = 15 * time.Minute

// DSQLConfig configures the DSQL token provider.
type DSQLConfig struct {
	// Endpoint is the cluster endpoint host the token is scoped to.
	Endpoint string

	// Region is the AWS region of the cluster.
	Region string

	// TokenTTL is the requested token lifetime.
	// Default: DefaultTokenTTL
	TokenTTL time.Duration

	// Credentials supplies the signing identity. If nil, the default AWS
	// credential chain is loaded at construction.
	Credentials aws.CredentialsProvider
}

// DSQLProvider issues SigV4 presigned connect tokens for a DSQL cluster.
// The token doubles as the connection password; TLS is mandatory on the
// connection that presents it.
type DSQLProvider struct {
	config DSQLConfig
}

// NewDSQLProvider creates a DSQL token provider.
func NewDSQLProvider(ctx context.Context, config DSQLConfig) (*DSQLProvider, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("credential: dsql endpoint is required")
	}
	if config.Region == "" {
		return nil, fmt.Errorf("credential: dsql region is required")
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = DefaultTokenTTL
	}

	if config.Credentials == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
		if err != nil {
			return nil, fmt.Errorf("%w: load aws config: %v", ErrUnreachable, err)
		}
		config.Credentials = awsCfg.Credentials
	}

	return &DSQLProvider{config: config}, nil
}

// Issue generates a fresh presigned connect token for principal.
// The admin principal receives the admin token variant; every other
// principal receives a regular connect token.
func (p *DSQLProvider) Issue(ctx context.Context, principal string) (Token, error) {
	if principal == "" {
		return Token{}, ErrEmptyPrincipal
	}

	issuedAt := time.Now()
	opt := func(options *dsqlauth.TokenOptions) {
		options.ExpiresIn = p.config.TokenTTL
	}

	var value string
	var err error
	if principal == AdminPrincipal {
		value, err = dsqlauth.GenerateDBConnectAdminAuthToken(ctx, p.config.Endpoint, p.config.Region, p.config.Credentials, opt)
	} else {
		value, err = dsqlauth.GenerateDbConnectAuthToken(ctx, p.config.Endpoint, p.config.Region, p.config.Credentials, opt)
	}
	if err != nil {
		return Token{}, classifyIssueError(err)
	}

	return Token{
		Value:    value,
		IssuedAt: issuedAt,
		TTL:      p.config.TokenTTL,
	}, nil
}

// classifyIssueError maps signer failures onto the package taxonomy.
func classifyIssueError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "denied") || strings.Contains(msg, "forbidden") || strings.Contains(msg, "credential") {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

// Ensure DSQLProvider implements Provider
var _ Provider = (*DSQLProvider)(nil)

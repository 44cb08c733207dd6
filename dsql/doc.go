// Package dsql dials Amazon DSQL (PostgreSQL wire) backend connections
// for the connection pool, authenticating each session with a presigned
// token as the password over a TLS-required transport.
package dsql

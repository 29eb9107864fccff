// Package test contains the integration suite that provisions the Terraform
// configuration against LocalStack and verifies the deployed Lambda.
//
// The suite requires a running LocalStack instance and the terraform binary
// on PATH; it is guarded by the integration build tag:
//
//	go test -tags integration ./test/...
package test

// Package toolchain provisions the project-local build toolchain.
//
// After a successful Provision the project root contains:
//
//	.knitkit/                 extracted dependency cache (.knitkit/.cache)
//	.knitkit/mill             build runner, executable
//	.knitkit/jars/            dependency jar directory
//	.knitkit/jars/knitkit.jar library jar
//
// Each step runs only when its target path is missing, so provisioning an
// already provisioned project changes nothing.
package toolchain

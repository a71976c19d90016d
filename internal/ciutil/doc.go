// Package ciutil detects CI environments and resolves the settings that test
// infrastructure reads from the environment, such as the test database URL.
package ciutil

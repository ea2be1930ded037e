// Package testutil contains helper builders and scripted collaborators used
// across tests to reduce boilerplate when constructing provider responses,
// connectors and synthesizers. They are not intended for production usage.
package testutil

package decoder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const swiftSource = `import Foundation

public final class SessionManager {
    @Weaver(.registration, type: URLSessionClient.self, scope: .container)
    private var client: APIClient

    @objc @Weaver(.reference)
    var logger: Logger

    struct Settings {
        var theme: String
    }
}

enum Environment {
    case staging
    case production
}
`

func decode(t *testing.T) []Declaration {
	t.Helper()
	d, err := NewSwiftDecoder()
	require.NoError(t, err)

	records, err := d.Decode("SessionManager.swift", []byte(swiftSource))
	require.NoError(t, err)
	return records
}

func findByName(records []Declaration, name string) *Declaration {
	for i := range records {
		if records[i].Name == name {
			return &records[i]
		}
	}
	return nil
}

func TestSwiftDecoder_TypeRecords(t *testing.T) {
	records := decode(t)

	manager := findByName(records, "SessionManager")
	require.NotNil(t, manager, "expected SessionManager record, got %+v", records)
	assert.Equal(t, DeclClass, manager.Kind)
	assert.True(t, manager.HasBody())
	assert.Contains(t, manager.Accessibility, "public")

	enum := findByName(records, "Environment")
	require.NotNil(t, enum)
	assert.Equal(t, DeclEnum, enum.Kind)
}

func TestSwiftDecoder_OffsetsMatchSource(t *testing.T) {
	records := decode(t)
	manager := findByName(records, "SessionManager")
	require.NotNil(t, manager)

	declared := swiftSource[manager.Offset : manager.Offset+manager.Length]
	assert.True(t, strings.HasSuffix(strings.TrimSpace(declared), "}"))
	assert.Contains(t, declared, "class SessionManager")
}

func TestSwiftDecoder_PropertiesAndAttributes(t *testing.T) {
	records := decode(t)
	manager := findByName(records, "SessionManager")
	require.NotNil(t, manager)

	client := findByName(manager.Substructure, "client")
	require.NotNil(t, client, "expected client property, got %+v", manager.Substructure)
	assert.Equal(t, DeclVarInstance, client.Kind)
	assert.Equal(t, "APIClient", client.TypeName)

	var weaver *Attribute
	for i := range client.Attributes {
		if client.Attributes[i].Name == "Weaver" {
			weaver = &client.Attributes[i]
		}
	}
	require.NotNil(t, weaver, "expected Weaver attribute, got %+v", client.Attributes)
	assert.Contains(t, weaver.Text, ".registration")
	assert.Equal(t, weaver.Text, swiftSource[weaver.Offset:weaver.Offset+weaver.Length])

	logger := findByName(manager.Substructure, "logger")
	require.NotNil(t, logger)
	names := make([]string, 0, len(logger.Attributes))
	for _, attr := range logger.Attributes {
		names = append(names, attr.Name)
	}
	assert.Contains(t, names, "objc")
	assert.Contains(t, names, "Weaver")

	nested := findByName(manager.Substructure, "Settings")
	require.NotNil(t, nested, "nested struct should appear in substructure")
	assert.Equal(t, DeclStruct, nested.Kind)
}

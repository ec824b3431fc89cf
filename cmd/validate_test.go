package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCleanTemplate(t *testing.T) {
	stdout, err := execute(t, "validate", testTemplate)
	require.NoError(t, err)
	assert.Contains(t, stdout, testTemplate+": ok")
	assert.NotContains(t, stdout, "[ERROR]")
}

func TestValidateBrokenTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	broken := `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03">
  <CstmrCdtTrfInitn>
    <GrpHdr>
      <MsgId></MsgId>
    </GrpHdr>
  </CstmrCdtTrfInitn>
</Document>
`
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	stdout, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error(s)")
	assert.Contains(t, stdout, "[ERROR] CreDtTm: header field missing")
	assert.Contains(t, stdout, "[ERROR] PmtInf: no payment block")
}

func TestValidateForeignNamespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.xml")
	foreign := `<Document xmlns="urn:something:else"><CstmrCdtTrfInitn></CstmrCdtTrfInitn></Document>`
	require.NoError(t, os.WriteFile(path, []byte(foreign), 0o644))

	stdout, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, stdout, "document namespace")
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load template")
}

func TestVersion(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "SEPA Batch Generator")
	assert.Contains(t, stdout, "Version:    ")
	assert.Contains(t, stdout, "Go Version: go")
}

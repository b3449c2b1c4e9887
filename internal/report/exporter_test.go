package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sentlog/sentlog/internal/model"
)

func TestNewWriter(t *testing.T) {
	w, err := NewWriter("")
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", w.Ext())

	w, err = NewWriter("CSV")
	require.NoError(t, err)
	assert.Equal(t, ".csv", w.Ext())

	_, err = NewWriter("pdf")
	assert.Error(t, err)
}

func TestExporter_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	f := newFormatter(t)
	exp := NewExporter(path, "", XLSXWriter{}, f)

	require.NoError(t, exp.Export(scenario()))

	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"Mensagens Enviadas"}, book.GetSheetList())
	rows, err := book.GetRows("Mensagens Enviadas")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Team", "2", "17/10/2026", "17/10/2026 10:00:00 - 17/10/2026 10:05:00"}, rows[1])
	assert.Equal(t, []string{"TOTAL DO DIA", "3", "17/10/2026", "0 horas e 5 minutos"}, rows[3])

	props, err := book.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "run", props.Identifier)
}

func TestExporter_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	exp := NewExporter(path, "", CSVWriter{}, newFormatter(t))
	require.NoError(t, exp.Export(&model.Snapshot{Tally: model.NewTally()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Nome do Grupo/Contato,Número de Mensagens Enviadas,Data,Período do Envio\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestExporter_ByteIdenticalRows(t *testing.T) {
	exp := NewExporter("", "", CSVWriter{}, newFormatter(t))
	snap := scenario()

	var a, b bytes.Buffer
	require.NoError(t, exp.Writer().Write(&a, exp.Rows(snap), exp.Meta(snap)))
	require.NoError(t, exp.Writer().Write(&b, exp.Rows(snap), exp.Meta(snap)))
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Equal(t, DefaultPath, exp.Path())
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	po := &predictOptions{examples: true}
	texts, err := po.collect([]string{"extra"}, strings.NewReader(""))
	require.NoError(t, err)
	assert.Len(t, texts, len(ExampleMessages)+1)
	assert.Equal(t, "extra", texts[len(texts)-1])

	po = &predictOptions{}
	texts, err = po.collect(nil, strings.NewReader("first\n\n  second  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, texts)

	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o600))
	po = &predictOptions{file: path}
	texts, err = po.collect(nil, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, texts)

	_, err = (&predictOptions{}).collect(nil, strings.NewReader(""))
	assert.Error(t, err)
}

func TestPredictCommand_Examples(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SPAM_FILTER_CACHE_ENABLED", "false")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"predict", "--examples", "--dataset", filepath.Join(dir, "missing.csv")})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(ExampleMessages))
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, "'"+ExampleMessages[i]+"' is predicted as: "), line)
	}
}

func TestTrainCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	data := "Category,Message\n" +
		"ham,See you at the meeting tomorrow\n" +
		"ham,Can you send the project report\n" +
		"ham,Lunch next week sounds good\n" +
		"ham,Thanks for the notes from today\n" +
		"spam,WIN a FREE prize now\n" +
		"spam,Claim your FREE reward today\n" +
		"spam,URGENT you have won cash\n" +
		"other,not a label\n"
	path := filepath.Join(dir, "spam.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("SPAM_FILTER_CACHE_ENABLED", "false")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"train", "--dataset", path, "--format", "json"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `"records": 7`)
	assert.Contains(t, out.String(), `"dropped": 1`)
	assert.Contains(t, out.String(), `"confusion_matrix"`)
}

func TestPreprocessCommand(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"preprocess", "-n", "2", "--dataset", filepath.Join(t.TempDir(), "missing.csv")})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 2, strings.Count(out.String(), "Original: "))
	assert.Equal(t, 2, strings.Count(out.String(), "Processed: "))
}

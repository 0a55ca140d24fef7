package wire

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDisplay(t *testing.T) {
	assert.Equal(t, DisplayTUI, ResolveDisplay("auto", true))
	assert.Equal(t, DisplayPlain, ResolveDisplay("auto", false))
	assert.Equal(t, DisplayPlain, ResolveDisplay("plain", true))
	assert.Equal(t, DisplayTUI, ResolveDisplay("tui", false))
}

func TestBuildApp(t *testing.T) {
	v := viper.New()
	v.Set("display.mode", "auto")
	v.Set("log.level", "info")
	no := false
	app, err := BuildApp(context.Background(), v, Options{IsTTY: &no})
	require.NoError(t, err)
	defer app.Close()
	assert.Equal(t, DisplayPlain, app.Display)
	assert.NotNil(t, app.Log)

	v.Set("log.level", "chatty")
	_, err = BuildApp(context.Background(), v, Options{IsTTY: &no})
	assert.Error(t, err)
}

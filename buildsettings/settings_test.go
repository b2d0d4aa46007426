package buildsettings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
	}{
		{"windows", Windows},
		{"Mac", Mac},
		{"osx", Mac},
		{"html5", HTML5},
		{"WebGL", HTML5},
		{"android", Android},
		{"iOS", IOS},
		{"undefined", Undefined},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlatform(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePlatform("amiga")
	assert.Error(t, err)
}

func TestHost(t *testing.T) {
	saved := goos
	defer func() { goos = saved }()

	goos = "darwin"
	assert.Equal(t, Mac, Host())
	goos = "linux"
	assert.Equal(t, Windows, Host())
}

func TestOpen_Missing(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Undefined, s.CurrentPlatform())
}

func TestSetCurrentPlatform_NotifiesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s, err := Open(path)
	require.NoError(t, err)

	type change struct{ from, to Platform }
	var changes []change
	s.OnPlatformChange(func(from, to Platform) {
		changes = append(changes, change{from, to})
	})

	got, err := s.SetCurrentPlatform(Android)
	require.NoError(t, err)
	assert.Equal(t, Android, got)

	_, err = s.SetCurrentPlatform(Android)
	require.NoError(t, err)

	assert.Equal(t, []change{{Undefined, Android}}, changes)
}

func TestSetCurrentPlatform_UndefinedSelectsHost(t *testing.T) {
	saved := goos
	defer func() { goos = saved }()
	goos = "darwin"

	s, err := Open(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	got, err := s.SetCurrentPlatform(Undefined)
	require.NoError(t, err)
	assert.Equal(t, Mac, got)
	assert.Equal(t, Mac, s.CurrentPlatform())
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s, err := Open(path)
	require.NoError(t, err)

	_, err = s.SetCurrentPlatform(HTML5)
	require.NoError(t, err)
	require.NoError(t, s.Update(func(st *Settings) {
		st.AppName = "Roboman"
		st.PackageName = "com.example.roboman"
		st.Android.SDKPath = "/opt/android-sdk"
		st.Android.APILevel = 19
		st.Web.OutputDir = "Build/Web"
		st.CurrentPlatform = IOS
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `current_platform = .html5.`, string(data))

	reopened, err := Open(path)
	require.NoError(t, err)
	got := reopened.Settings()
	assert.Equal(t, HTML5, got.CurrentPlatform, "Update leaves the platform alone")
	assert.Equal(t, "Roboman", got.AppName)
	assert.Equal(t, 19, got.Android.APILevel)
	assert.Equal(t, "Build/Web", got.Web.OutputDir)
}

func TestBackupRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s, err := Open(path)
	require.NoError(t, err)

	for _, p := range []Platform{Windows, Mac, Android, IOS, HTML5} {
		_, err := s.SetCurrentPlatform(p)
		require.NoError(t, err)
	}

	for _, tt := range []struct {
		suffix string
		want   string
	}{
		{".back1", "ios"},
		{".back2", "android"},
		{".back3", "mac"},
	} {
		data, err := os.ReadFile(path + tt.suffix)
		require.NoError(t, err, tt.suffix)
		assert.Contains(t, string(data), tt.want, tt.suffix)
	}
	_, err = os.Stat(path + ".back4")
	assert.True(t, os.IsNotExist(err))
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("current_platform = 'amiga'\n"), 0644))

	_, err := Open(path)
	assert.Error(t, err)
}

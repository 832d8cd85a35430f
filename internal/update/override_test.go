package update

import "testing"

func envWith(values map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestReferenceVersion(t *testing.T) {
	current := Version{4, 5, 6, 7}
	tests := []struct {
		name string
		env  map[string]string
		want Version
	}{
		{name: "unset", env: nil, want: current},
		{name: "override", env: map[string]string{AssumeVersionEnv: "3.2.1.0"}, want: Version{3, 2, 1, 0}},
		{name: "unparsable", env: map[string]string{AssumeVersionEnv: "garbage"}, want: Version{1, 0, 0, 0}},
		{name: "too few components", env: map[string]string{AssumeVersionEnv: "3.2"}, want: Version{1, 0, 0, 0}},
		{name: "empty", env: map[string]string{AssumeVersionEnv: ""}, want: Version{1, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReferenceVersion(current, envWith(tt.env)); got != tt.want {
				t.Errorf("ReferenceVersion() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReferenceVersion_ProcessEnv(t *testing.T) {
	t.Setenv(AssumeVersionEnv, "9.8.7.6")
	if got := ReferenceVersion(Version{}, nil); got != (Version{9, 8, 7, 6}) {
		t.Errorf("ReferenceVersion() = %s, want 9.8.7.6", got)
	}
}

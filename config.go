package wirebuf

import (
	"bufio"
	"os"
	"path"
	"regexp"
	"strconv"

	"github.com/performancecopilot/wirebuf/bytebuffer"
)

// rootPath stores the root that relative configured paths are resolved against
var rootPath string

// confPath stores path to wirebuf.conf
var confPath string

// config stores the key value pairs read from wirebuf.conf
var config map[string]string

// pat stores a valid key-value pattern line
var pat = regexp.MustCompile("^([A-Z0-9_]+)=(.*)$")

// initConfig initializes the config constants
func initConfig() error {
	rootPath = "/"
	if p, ok := os.LookupEnv("WIREBUF_DIR"); ok {
		rootPath = p
	}

	confPath = path.Join(rootPath, "etc", "wirebuf.conf")
	if p, ok := os.LookupEnv("WIREBUF_CONF"); ok {
		confPath = p
	}

	// an empty map, so that lookups work without a config file
	config = make(map[string]string)

	f, err := os.Open(confPath)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if matches := pat.FindStringSubmatch(scanner.Text()); matches != nil {
			config[matches[1]] = matches[2]
		}
	}

	return scanner.Err()
}

// ConfigValue returns the value of key, looking at the environment first and
// wirebuf.conf second.
func ConfigValue(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}

	v, ok := config[key]
	return v, ok
}

// DefaultSize returns the initial capacity for buffers created by NewBuffer,
// WIREBUF_DEFAULT_SIZE if it is set to a non negative number, otherwise
// bytebuffer.DefaultSize.
func DefaultSize() int {
	if v, ok := ConfigValue("WIREBUF_DEFAULT_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}

	return bytebuffer.DefaultSize
}

package common

import (
	"bytes"
	"crypto/md5"
	"os"
	"path/filepath"
	"strings"

	toolsRender "github.com/devopsext/tools/render"
	"github.com/devopsext/utils"
)

func RemoveEmptyStrings(items []string) []string {

	r := []string{}
	for _, v := range items {
		if utils.IsEmpty(v) {
			continue
		}
		r = append(r, strings.TrimSpace(v))
	}
	return r
}

func MergeLabels(maps ...Labels) Labels {

	r := make(Labels)
	for _, m := range maps {
		for k, v := range m {
			r[k] = v
		}
	}
	return r
}

func GetStringKeys(m map[string]string) []string {

	keys := []string{}
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func ByteMD5(b []byte) []byte {
	h := md5.New()
	h.Write(b)
	return h.Sum(nil)
}

// FileWriteWithCheckSum writes data unless the file already holds the same
// content. Returns true when the file existed with an identical checksum.
func FileWriteWithCheckSum(path string, data []byte, checksum bool) (bool, error) {

	if checksum && utils.FileExists(path) {
		old, err := os.ReadFile(path)
		if err == nil && bytes.Equal(ByteMD5(old), ByteMD5(data)) {
			return true, nil
		}
	}

	dir := filepath.Dir(path)
	if !utils.FileExists(dir) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, err
		}
	}
	return false, os.WriteFile(path, data, 0644)
}

func RenderTemplate(tpl *toolsRender.TextTemplate, def string, obj interface{}) (string, error) {

	if tpl == nil {
		return def, nil
	}

	b, err := tpl.RenderObject(obj)
	if err != nil {
		return def, err
	}
	r := strings.TrimSpace(string(b))
	// simplify <no value> output
	if utils.Contains([]string{"<no value>", "<nil>"}, r) {
		return def, nil
	}
	return r, nil
}

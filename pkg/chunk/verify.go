package chunk

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joeblew999/plat-fonts/internal/errorx"
)

// verify re-reads the written files and returns every assigned family that
// is not present, by exact familyName, in the shard it was routed to. It
// runs only after all writes so it checks the bytes on disk.
func verify(dir string, res *Result) ([]string, error) {
	cache := make(map[string]map[string]int)

	load := func(shard string) (map[string]int, error) {
		if names, ok := cache[shard]; ok {
			return names, nil
		}
		data, err := os.ReadFile(filepath.Join(dir, shard+".json"))
		if err != nil {
			return nil, errorx.Wrap(errorx.ErrVerification, "read chunk %s: %v", shard, err)
		}
		var doc struct {
			Fonts []struct {
				FamilyName string `json:"familyName"`
			} `json:"fonts"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errorx.Wrap(errorx.ErrVerification, "parse chunk %s: %v", shard, err)
		}
		names := make(map[string]int, len(doc.Fonts))
		for _, f := range doc.Fonts {
			names[f.FamilyName]++
		}
		cache[shard] = names
		return names, nil
	}

	var missing []string
	for _, shard := range Shards {
		for _, name := range res.Assigned[shard] {
			names, err := load(shard)
			if err != nil {
				return nil, err
			}
			if names[name] == 0 {
				missing = append(missing, name)
				continue
			}
			names[name]--
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, IndexFilename))
	if err != nil {
		return nil, errorx.Wrap(errorx.ErrVerification, "read index: %v", err)
	}
	var index []IndexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, errorx.Wrap(errorx.ErrVerification, "parse index: %v", err)
	}
	if len(index) != res.Total() {
		return nil, errorx.Wrap(errorx.ErrVerification, "index lists %d families, %d were assigned", len(index), res.Total())
	}

	return missing, nil
}

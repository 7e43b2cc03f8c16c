package anchor

import (
	"github.com/okulov/sigil/internal/digest"
	"github.com/okulov/sigil/internal/model"
	"github.com/okulov/sigil/internal/util"
)

// Generator derives compact, ledger-ready records from manifests.
type Generator struct {
	digest digest.Hasher
	ids    util.IDGenerator
}

// NewGenerator creates an anchor generator. The digest is used for the
// reproducible compact hash; ids supplies fresh anchor identifiers.
func NewGenerator(d digest.Hasher, ids util.IDGenerator) *Generator {
	return &Generator{digest: d, ids: ids}
}

// Generate produces an anchor record for the manifest. CompactHash is
// digest(merkleRoot ++ contentID): an external ledger can de-duplicate or
// re-verify anchors from those two fields without holding the full manifest.
// AnchorID is fresh per call.
func (g *Generator) Generate(m *model.Manifest) *model.AnchorRecord {
	return &model.AnchorRecord{
		AnchorID:      g.ids.NewID(),
		ContentID:     m.ContentID,
		MerkleRoot:    m.MerkleRoot,
		SegmentCount:  m.SegmentCount,
		TotalDuration: m.TotalDuration,
		CompactHash:   g.digest.Sum([]byte(m.MerkleRoot + m.ContentID)),
	}
}

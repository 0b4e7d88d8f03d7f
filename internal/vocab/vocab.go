// Package vocab holds the fixed vocabulary terms and namespace bindings the
// crawler recognizes in the upstream Tripal web-services API.
package vocab

// Hydra core terms used for collection paging.
const (
	// TotalItems is the property carrying a collection's total member count.
	TotalItems = "http://www.w3.org/ns/hydra/core#totalItems"

	// PartialCollectionView tags paging bookkeeping statements. Statements
	// using it as a predicate are never followed and are stripped after the
	// crawl.
	PartialCollectionView = "http://www.w3.org/ns/hydra/core#PartialCollectionView"
)

// Artifact object IRIs introduced by the upstream paginator. Both show up as
// statement objects in collection views and carry no data.
const (
	// LocalViewPlaceholder is the placeholder the upstream emits for the
	// current view when no canonical IRI is available.
	LocalViewPlaceholder = "file:///tmp/PartialCollectionView"

	// ContentViewObject is the canonical collection-view object IRI in the
	// content namespace.
	ContentViewObject = "http://pflu.evolbio.mpg.de/web-services/content/v0.1/PartialCollectionView"
)

// DefaultContentNamespace is the URL prefix identifying documents that belong
// to the crawl target. Only object IRIs under this prefix become new tasks.
const DefaultContentNamespace = "http://pflu.evolbio.mpg.de/web-services/content/"

// QuirkHost is the host whose documents mix https and http IRIs for the same
// resources. Bodies fetched from it are rewritten to the http form before
// parsing so both spellings collapse to one term.
const QuirkHost = "pflu.evolbio.mpg.de"

const contentBase = "http://pflu.evolbio.mpg.de/web-services/content/v0.1/"

// Prefixes returns the namespace bindings passed to the serialization step.
// The map is rebuilt on every call so callers may mutate their copy.
func Prefixes() map[string]string {
	return map[string]string{
		"ssr":      "http://semanticscience.org/resource/",
		"edam":     "http://edamontology.org/",
		"schema":   "https://schema.org/",
		"obo":      "http://purl.obolibrary.org/obo/",
		"so":       "http://www.sequenceontology.org/browser/current_svn/term/SO:",
		"hydra":    "http://www.w3.org/ns/hydra/core#",
		"ncbitax":  "https://www.ncbi.nlm.nih.gov/Taxonomy/Browser/wwwtax.cgi?id=",
		"pflu":     contentBase,
		"tripal3":  "http://pflu.evolbio.mpg.de/cv/lookup/local/",
		"analysis": contentBase + "Analysis/",

		"binding_site":                 contentBase + "Binding_Site/",
		"biological_region":            contentBase + "Biological_Region/",
		"cds":                          contentBase + "CDS/",
		"exon":                         contentBase + "Exon/",
		"gene":                         contentBase + "Gene/",
		"genetic_map":                  contentBase + "Genetic_Map/",
		"genetic_marker":               contentBase + "Genetic_Marker/",
		"genome_annotation":            contentBase + "Genome_Annotation/",
		"genome_assembly":              contentBase + "Genome_Assembly/",
		"germplasm_accession":          contentBase + "Germplasm_Accession/",
		"heritable_phenotypic_marker":  contentBase + "Heritable_Phenotypic_Marker/",
		"mrna":                         contentBase + "mRNA/",
		"ncrna":                        contentBase + "ncRNA/",
		"organism":                     contentBase + "Organism/",
		"phylogenetic_tree":            contentBase + "Phylogenetic_Tree/",
		"physical_map":                 contentBase + "Physical_Map/",
		"protein_binding_site":         contentBase + "Protein_Binding_Site/",
		"pseudogene":                   contentBase + "Pseudogene/",
		"pseudogenic_cds":              contentBase + "Pseudogenic_CDS/",
		"pseudogenic_exon":             contentBase + "Pseudogenic_Exon/",
		"pseudogenic_transcript":       contentBase + "Pseudogenic_Transcript/",
		"publication":                  contentBase + "Publication/",
		"qtl":                          contentBase + "QTL/",
		"regulatory_region":            contentBase + "Regulatory_Region/",
		"repeat_region":                contentBase + "Repeat_Region/",
		"rrna":                         contentBase + "RRNA/",
		"sequence_difference":          contentBase + "Sequence_Difference/",
		"sequence_variant":             contentBase + "Sequence_Variant/",
		"signal_peptide":               contentBase + "Signal_Peptide/",
		"stem_loop":                    contentBase + "Stem_Loop/",
		"tmrna":                        contentBase + "TmRNA/",
		"transcript":                   contentBase + "Transcript/",
		"trna":                         contentBase + "TRNA/",
	}
}

package hypermedia

// Media types served by the demo API
const (
	MediaTypeJSON      = "application/json"
	MediaTypeJSONPatch = "application/json-patch+json"
	MediaTypePassword  = "application/prs.remotewebobjectdemo.password.v1+json"
	MediaTypeHash      = "application/prs.remotewebobjectdemo.hash.v1+json"
	MediaTypeCRC       = "application/prs.remotewebobjectdemo.crc.v1+json-remote"
	MediaTypeForm      = "application/x-www-form-urlencoded"
	MediaTypeMultipart = "multipart/form-data"
)

// Fields are declared in lexicographic JSON key order so that encoding is
// byte-stable with sorted-key output.

// Format is the (empty) descriptor attached to each supported media type
type Format struct{}

// Hints lists the methods and media types a resource accepts
type Hints struct {
	Allow   []string          `json:"allow"`
	Formats map[string]Format `json:"formats"`
}

// Function describes a client-invocable operation on a resource
type Function struct {
	Arguments     []string          `json:"arguments"`
	Defaults      map[string]string `json:"defaults,omitempty"`
	Format        string            `json:"format"`
	Method        string            `json:"method"`
	RequestBody   []string          `json:"requestBody,omitempty"`
	RequestFormat string            `json:"requestFormat,omitempty"`
}

// Event names a server-push event a stream resource emits
type Event struct{}

// Resource is one entry of a document's resources map. Templated resources
// carry HrefTemplate; stream resources carry Href and Events.
type Resource struct {
	Events       map[string]Event    `json:"events,omitempty"`
	Functions    map[string]Function `json:"functions,omitempty"`
	Hints        *Hints              `json:"hints,omitempty"`
	Href         string              `json:"href,omitempty"`
	HrefTemplate string              `json:"hrefTemplate,omitempty"`
	HrefVars     map[string]string   `json:"hrefVars,omitempty"`
}

// withBase returns a copy of r with its links resolved against base.
// Nested maps are shared with the receiver and must not be mutated.
func (r Resource) withBase(base string) Resource {
	if r.Href != "" {
		r.Href = base + r.Href
	}
	if r.HrefTemplate != "" {
		r.HrefTemplate = base + r.HrefTemplate
	}
	return r
}

// Discovery is the capability document served at /demo/
type Discovery struct {
	Resources map[string]Resource `json:"resources"`
}

// CRCState is the remote object state carried by a CRC resource document
type CRCState struct {
	Private  CRCPrivate  `json:"private"`
	Public   CRCPublic   `json:"public"`
	Readonly CRCReadonly `json:"readonly"`
}

type CRCPrivate struct {
	Value uint32 `json:"value"`
}

type CRCPublic struct {
	Output uint32 `json:"output"`
}

type CRCReadonly struct {
	ReadonlyOutput uint32 `json:"readonlyOutput"`
}

// CRCDocument is the remote object returned for a computed CRC
type CRCDocument struct {
	Resources map[string]Resource `json:"resources"`
	State     CRCState            `json:"state"`
}

func formats(types ...string) map[string]Format {
	m := make(map[string]Format, len(types))
	for _, t := range types {
		m[t] = Format{}
	}
	return m
}

// discoveryResources holds the relative-link skeleton, built once
var discoveryResources = map[string]Resource{
	"password": {
		HrefTemplate: "demo/password/{?cleartext,algorithm,salt,rounds}",
		HrefVars: map[string]string{
			"cleartext": "param/pass/cleartext",
			"algorithm": "param/pass/algorithm",
			"salt":      "param/pass/salt",
			"rounds":    "param/pass/rounds",
		},
		Hints: &Hints{
			Allow:   []string{"GET"},
			Formats: formats(MediaTypeJSON, MediaTypePassword),
		},
		Functions: map[string]Function{
			"getAlgorithms": {
				Arguments: []string{},
				Format:    MediaTypePassword,
				Method:    "GET",
			},
			"hashPassword": {
				Arguments: []string{"cleartext", "algorithm", "salt", "rounds"},
				Format:    MediaTypePassword,
				Method:    "GET",
			},
		},
	},
	"hash": {
		HrefTemplate: "demo/hash/{?algorithm}",
		HrefVars: map[string]string{
			"data":      "param/hash/data",
			"algorithm": "param/hash/algorithm",
		},
		Hints: &Hints{
			Allow:   []string{"GET"},
			Formats: formats(MediaTypeJSON, MediaTypePassword),
		},
		Functions: map[string]Function{
			"hash256": {
				Arguments:     []string{"data"},
				Defaults:      map[string]string{"algorithm": "sha256"},
				Format:        MediaTypeHash,
				Method:        "POST",
				RequestFormat: MediaTypeForm,
			},
			"hash512": {
				Arguments:     []string{"data"},
				Defaults:      map[string]string{"algorithm": "sha512"},
				Format:        MediaTypeHash,
				Method:        "PUT",
				RequestFormat: MediaTypeMultipart,
			},
		},
	},
	"crc": {
		HrefTemplate: "demo/crc/{?data,value}",
		HrefVars: map[string]string{
			"data":  "param/hash/data",
			"value": "param/hash/value",
		},
		Hints: &Hints{
			Allow:   []string{"GET"},
			Formats: formats(MediaTypeJSON, MediaTypeCRC),
		},
		Functions: map[string]Function{
			"crc32": {
				Arguments: []string{"data"},
				Format:    MediaTypeCRC,
				Method:    "GET",
			},
		},
	},
	"tick": {
		Href:   "demo/tick",
		Events: map[string]Event{"tick": {}},
	},
	"clock": {
		Href:   "demo/clock",
		Events: map[string]Event{"second": {}, "minute": {}},
	},
}

// crcResource is the single resource advertised by a CRC document
var crcResource = Resource{
	HrefTemplate: "demo/crc/{?data}",
	HrefVars: map[string]string{
		"data": "param/hash/data",
	},
	Hints: &Hints{
		Allow:   []string{"PUT"},
		Formats: formats(MediaTypeJSON, MediaTypeCRC),
	},
	Functions: map[string]Function{
		"update": {
			Arguments:   []string{"data"},
			Format:      MediaTypeJSONPatch,
			Method:      "PUT",
			RequestBody: []string{"value"},
		},
	},
}

// NewDiscovery returns the discovery document with links under base, the
// application URI ending in "/".
func NewDiscovery(base string) Discovery {
	resources := make(map[string]Resource, len(discoveryResources))
	for name, r := range discoveryResources {
		resources[name] = r.withBase(base)
	}
	return Discovery{Resources: resources}
}

// NewCRCDocument returns the remote object for a computed crc
func NewCRCDocument(base string, crc uint32) CRCDocument {
	return CRCDocument{
		Resources: map[string]Resource{"crc": crcResource.withBase(base)},
		State: CRCState{
			Private:  CRCPrivate{Value: crc},
			Public:   CRCPublic{Output: crc},
			Readonly: CRCReadonly{ReadonlyOutput: crc},
		},
	}
}

package persistence

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lexcodex/bonebudget/framework"
)

var validate = validator.New()

// SceneDocument is the on-disk snapshot of one rig: a node tree plus the
// bone chains, colliders and contacts that reference it by path.
type SceneDocument struct {
	Name         string             `json:"name" yaml:"name"`
	Root         NodeDocument       `json:"root" yaml:"root"`
	DynamicBones []BoneDocument     `json:"dynamic_bones,omitempty" yaml:"dynamic_bones,omitempty" validate:"dive"`
	MergedChains []MergedDocument   `json:"merged_chains,omitempty" yaml:"merged_chains,omitempty" validate:"dive"`
	Colliders    []ColliderDocument `json:"colliders,omitempty" yaml:"colliders,omitempty" validate:"dive"`
	Contacts     []ContactDocument  `json:"contacts,omitempty" yaml:"contacts,omitempty" validate:"dive"`
}

// NodeDocument is one node of the tree. Active defaults to true.
type NodeDocument struct {
	Name     string         `json:"name" yaml:"name" validate:"required"`
	Exclude  bool           `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Active   *bool          `json:"active,omitempty" yaml:"active,omitempty"`
	Children []NodeDocument `json:"children,omitempty" yaml:"children,omitempty" validate:"dive"`
}

// BoneDocument describes one dynamic bone chain.
type BoneDocument struct {
	Name        string               `json:"name" yaml:"name" validate:"required"`
	Node        string               `json:"node" yaml:"node" validate:"required"`
	Root        string               `json:"root,omitempty" yaml:"root,omitempty"`
	Ignores     []string             `json:"ignores,omitempty" yaml:"ignores,omitempty"`
	Endpoint    []float32            `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"omitempty,len=3"`
	MultiChild  string               `json:"multi_child,omitempty" yaml:"multi_child,omitempty" validate:"omitempty,oneof=ignore first average Ignore First Average"`
	Colliders   []string             `json:"colliders,omitempty" yaml:"colliders,omitempty"`
	Radius      float32              `json:"radius,omitempty" yaml:"radius,omitempty" validate:"gte=0"`
	RadiusCurve []framework.Keyframe `json:"radius_curve,omitempty" yaml:"radius_curve,omitempty"`
}

// MergedDocument groups bones into one merged chain.
type MergedDocument struct {
	Name    string   `json:"name" yaml:"name" validate:"required"`
	Node    string   `json:"node" yaml:"node" validate:"required"`
	Members []string `json:"members" yaml:"members"`
}

// ColliderDocument describes one collision volume.
type ColliderDocument struct {
	Name         string    `json:"name" yaml:"name" validate:"required"`
	Node         string    `json:"node,omitempty" yaml:"node,omitempty"`
	Shape        string    `json:"shape,omitempty" yaml:"shape,omitempty"`
	Radius       float32   `json:"radius,omitempty" yaml:"radius,omitempty" validate:"gte=0"`
	Height       float32   `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
	Position     []float32 `json:"position,omitempty" yaml:"position,omitempty" validate:"omitempty,len=3"`
	InsideBounds bool      `json:"inside_bounds,omitempty" yaml:"inside_bounds,omitempty"`
}

// ContactDocument describes one proximity trigger.
type ContactDocument struct {
	Name      string `json:"name" yaml:"name"`
	Node      string `json:"node,omitempty" yaml:"node,omitempty"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	LocalOnly bool   `json:"local_only,omitempty" yaml:"local_only,omitempty"`
}

// LoadSceneDocument reads a YAML or JSON scene document from path. The
// document name defaults to the file name without extension.
func LoadSceneDocument(path string) (*SceneDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := DecodeSceneDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// DecodeSceneDocument parses and validates a scene document. JSON is accepted
// as a subset of YAML.
func DecodeSceneDocument(r io.Reader) (*SceneDocument, error) {
	var doc SceneDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scene document")
		}
		return nil, fmt.Errorf("decode scene document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks required fields and value ranges.
func (d *SceneDocument) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid scene document: %w", err)
	}
	return nil
}

// Build resolves every path and name reference into a framework request.
// Bones listed as merge members are only estimated through their merge.
func (d *SceneDocument) Build() (framework.EstimateRequest, error) {
	root := buildNode(d.Root)
	scene := framework.NewScene(root)
	req := framework.EstimateRequest{Scene: d.Name, Root: root}

	lookup := func(kind, owner, path string) (*framework.Node, error) {
		if path == "" {
			return nil, nil
		}
		n, ok := scene.Find(path)
		if !ok {
			return nil, fmt.Errorf("%s %q: unknown node %q", kind, owner, path)
		}
		return n, nil
	}

	colliders := make(map[string]*framework.Collider, len(d.Colliders))
	for _, cd := range d.Colliders {
		if _, dup := colliders[cd.Name]; dup {
			return req, fmt.Errorf("collider %q defined twice", cd.Name)
		}
		node, err := lookup("collider", cd.Name, cd.Node)
		if err != nil {
			return req, err
		}
		shape, err := framework.ParseColliderShape(cd.Shape)
		if err != nil {
			return req, fmt.Errorf("collider %q: %w", cd.Name, err)
		}
		c := &framework.Collider{
			Name:         cd.Name,
			Node:         node,
			Shape:        shape,
			Radius:       cd.Radius,
			Height:       cd.Height,
			Position:     vec3(cd.Position),
			InsideBounds: cd.InsideBounds,
		}
		colliders[cd.Name] = c
		req.Colliders = append(req.Colliders, c)
	}

	bones := make(map[string]*framework.DynamicBone, len(d.DynamicBones))
	order := make([]string, 0, len(d.DynamicBones))
	for _, bd := range d.DynamicBones {
		if _, dup := bones[bd.Name]; dup {
			return req, fmt.Errorf("dynamic bone %q defined twice", bd.Name)
		}
		bone, err := d.buildBone(bd, colliders, lookup)
		if err != nil {
			return req, err
		}
		bones[bd.Name] = bone
		order = append(order, bd.Name)
	}

	merged := make(map[string]bool)
	var mergedChains []framework.BoneChain
	for _, md := range d.MergedChains {
		owner, err := lookup("merged chain", md.Name, md.Node)
		if err != nil {
			return req, err
		}
		members := make([]*framework.DynamicBone, 0, len(md.Members))
		for _, name := range md.Members {
			bone, ok := bones[name]
			if !ok {
				return req, fmt.Errorf("merged chain %q: unknown member %q", md.Name, name)
			}
			merged[name] = true
			members = append(members, bone)
		}
		mergedChains = append(mergedChains, framework.NewMergedChain(md.Name, owner, framework.StaticMembers(members...)))
	}

	for _, name := range order {
		if merged[name] {
			continue
		}
		req.Chains = append(req.Chains, framework.NewSingleChain(bones[name]))
	}
	req.Chains = append(req.Chains, mergedChains...)

	for _, cd := range d.Contacts {
		node, err := lookup("contact", cd.Name, cd.Node)
		if err != nil {
			return req, err
		}
		kind, err := framework.ParseContactKind(cd.Kind)
		if err != nil {
			return req, fmt.Errorf("contact %q: %w", cd.Name, err)
		}
		req.Contacts = append(req.Contacts, &framework.Contact{Name: cd.Name, Node: node, Kind: kind, LocalOnly: cd.LocalOnly})
	}
	return req, nil
}

func (d *SceneDocument) buildBone(bd BoneDocument, colliders map[string]*framework.Collider, lookup func(kind, owner, path string) (*framework.Node, error)) (*framework.DynamicBone, error) {
	node, err := lookup("dynamic bone", bd.Name, bd.Node)
	if err != nil {
		return nil, err
	}
	root, err := lookup("dynamic bone", bd.Name, bd.Root)
	if err != nil {
		return nil, err
	}
	multiChild, err := framework.ParseMultiChildType(bd.MultiChild)
	if err != nil {
		return nil, fmt.Errorf("dynamic bone %q: %w", bd.Name, err)
	}
	bone := &framework.DynamicBone{
		Name:             bd.Name,
		Node:             node,
		Root:             root,
		EndpointPosition: vec3(bd.Endpoint),
		MultiChildType:   multiChild,
		Radius:           bd.Radius,
	}
	if len(bd.RadiusCurve) > 0 {
		bone.RadiusCurve = framework.NewCurve(bd.RadiusCurve...)
	}
	for _, path := range bd.Ignores {
		n, err := lookup("dynamic bone", bd.Name, path)
		if err != nil {
			return nil, err
		}
		bone.Ignores = append(bone.Ignores, n)
	}
	for _, name := range bd.Colliders {
		c, ok := colliders[name]
		if !ok {
			return nil, fmt.Errorf("dynamic bone %q: unknown collider %q", bd.Name, name)
		}
		bone.Colliders = append(bone.Colliders, c)
	}
	return bone, nil
}

func buildNode(nd NodeDocument) *framework.Node {
	n := framework.NewNode(nd.Name)
	n.ExcludeTag = nd.Exclude
	if nd.Active != nil {
		n.Active = *nd.Active
	}
	for _, child := range nd.Children {
		n.AddChild(buildNode(child))
	}
	return n
}

func vec3(v []float32) mgl32.Vec3 {
	var out mgl32.Vec3
	copy(out[:], v)
	return out
}

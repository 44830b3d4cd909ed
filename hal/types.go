package hal

// QueueType identifies one of the three independent hardware queues
type QueueType int

const (
	QueueGraphics QueueType = iota
	QueueCompute
	QueueCopy

	// QueueTypeCount is the number of QueueType values and can size arrays indexed by QueueType
	QueueTypeCount = 3
)

var queueTypeMapping = map[QueueType]string{
	QueueGraphics: "Graphics",
	QueueCompute:  "Compute",
	QueueCopy:     "Copy",
}

func (t QueueType) String() string {
	return queueTypeMapping[t]
}

// QueueTypes lists every QueueType in declaration order
func QueueTypes() []QueueType {
	return []QueueType{QueueGraphics, QueueCompute, QueueCopy}
}

// DescriptorKind is the closed set of descriptor heap kinds
type DescriptorKind int

const (
	// DescriptorKindResource covers constant buffer, shader resource and unordered access views
	DescriptorKindResource DescriptorKind = iota
	DescriptorKindSampler
	DescriptorKindRenderTarget
	DescriptorKindDepthStencil

	// DescriptorKindCount is the number of DescriptorKind values and can size arrays indexed by
	// DescriptorKind
	DescriptorKindCount = 4
)

var descriptorKindMapping = map[DescriptorKind]string{
	DescriptorKindResource:     "Resource",
	DescriptorKindSampler:      "Sampler",
	DescriptorKindRenderTarget: "RenderTarget",
	DescriptorKindDepthStencil: "DepthStencil",
}

func (k DescriptorKind) String() string {
	return descriptorKindMapping[k]
}

// DescriptorKinds lists every DescriptorKind in declaration order
func DescriptorKinds() []DescriptorKind {
	return []DescriptorKind{DescriptorKindResource, DescriptorKindSampler, DescriptorKindRenderTarget, DescriptorKindDepthStencil}
}

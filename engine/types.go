package engine

// Container is a single entry from the container list endpoint.
type Container struct {
	ID         string            `json:"Id"`
	Names      []string          `json:"Names"`
	Image      string            `json:"Image"`
	ImageID    string            `json:"ImageID"`
	Command    string            `json:"Command"`
	Created    int64             `json:"Created"`
	State      string            `json:"State"`
	Status     string            `json:"Status"`
	Ports      []Port            `json:"Ports"`
	Labels     map[string]string `json:"Labels"`
	SizeRw     int64             `json:"SizeRw,omitempty"`
	SizeRootFs int64             `json:"SizeRootFs,omitempty"`
}

// Port describes a published or exposed container port.
type Port struct {
	IP          string `json:"IP,omitempty"`
	PrivatePort uint16 `json:"PrivatePort"`
	PublicPort  uint16 `json:"PublicPort,omitempty"`
	Type        string `json:"Type"`
}

// ContainerDetail is the inspect view of a single container.
type ContainerDetail struct {
	ID              string          `json:"Id"`
	Created         string          `json:"Created"`
	Path            string          `json:"Path"`
	Args            []string        `json:"Args"`
	State           ContainerState  `json:"State"`
	Image           string          `json:"Image"`
	Name            string          `json:"Name"`
	RestartCount    int             `json:"RestartCount"`
	Driver          string          `json:"Driver"`
	Platform        string          `json:"Platform"`
	MountLabel      string          `json:"MountLabel"`
	ProcessLabel    string          `json:"ProcessLabel"`
	HostConfig      HostConfig      `json:"HostConfig"`
	NetworkSettings NetworkSettings `json:"NetworkSettings"`
	Config          ContainerConfig `json:"Config"`
}

// ContainerState is the runtime state block of an inspect response.
type ContainerState struct {
	Status     string `json:"Status"`
	Running    bool   `json:"Running"`
	Paused     bool   `json:"Paused"`
	Restarting bool   `json:"Restarting"`
	OOMKilled  bool   `json:"OOMKilled"`
	Dead       bool   `json:"Dead"`
	Pid        int    `json:"Pid"`
	ExitCode   int    `json:"ExitCode"`
	Error      string `json:"Error"`
	StartedAt  string `json:"StartedAt"`
	FinishedAt string `json:"FinishedAt"`
}

// HostConfig carries the subset of host settings surfaced by inspect.
type HostConfig struct {
	NetworkMode   string                   `json:"NetworkMode"`
	PortBindings  map[string][]PortBinding `json:"PortBindings"`
	RestartPolicy RestartPolicy            `json:"RestartPolicy"`
	Binds         []string                 `json:"Binds"`
	Privileged    bool                     `json:"Privileged"`
	AutoRemove    bool                     `json:"AutoRemove"`
}

// PortBinding maps a container port to a host address.
type PortBinding struct {
	HostIP   string `json:"HostIp"`
	HostPort string `json:"HostPort"`
}

// RestartPolicy is a container restart policy.
type RestartPolicy struct {
	Name              string `json:"Name"`
	MaximumRetryCount int    `json:"MaximumRetryCount"`
}

// NetworkSettings is the network block of an inspect response. Ports maps
// "port/proto" keys to host bindings; unexposed ports map to null.
type NetworkSettings struct {
	Bridge      string                      `json:"Bridge"`
	SandboxID   string                      `json:"SandboxID"`
	Gateway     string                      `json:"Gateway"`
	IPAddress   string                      `json:"IPAddress"`
	IPPrefixLen int                         `json:"IPPrefixLen"`
	MacAddress  string                      `json:"MacAddress"`
	Ports       map[string][]PortBinding    `json:"Ports"`
	Networks    map[string]EndpointSettings `json:"Networks"`
}

// EndpointSettings describes one network a container is attached to.
type EndpointSettings struct {
	NetworkID  string `json:"NetworkID"`
	EndpointID string `json:"EndpointID"`
	Gateway    string `json:"Gateway"`
	IPAddress  string `json:"IPAddress"`
	MacAddress string `json:"MacAddress"`
}

// ContainerConfig is the static configuration block of an inspect response.
type ContainerConfig struct {
	Hostname   string            `json:"Hostname"`
	User       string            `json:"User"`
	Env        []string          `json:"Env"`
	Cmd        []string          `json:"Cmd"`
	Entrypoint []string          `json:"Entrypoint"`
	Image      string            `json:"Image"`
	WorkingDir string            `json:"WorkingDir"`
	Labels     map[string]string `json:"Labels"`
	Tty        bool              `json:"Tty"`
}

// Image is a single entry from the image list endpoint.
type Image struct {
	ID          string            `json:"Id"`
	ParentID    string            `json:"ParentId"`
	RepoTags    []string          `json:"RepoTags"`
	RepoDigests []string          `json:"RepoDigests"`
	Created     int64             `json:"Created"`
	Size        int64             `json:"Size"`
	VirtualSize int64             `json:"VirtualSize"`
	Labels      map[string]string `json:"Labels"`
	Containers  int64             `json:"Containers"`
}

// ImageStatus is one progress record from an image pull stream.
type ImageStatus struct {
	Status         string          `json:"status,omitempty"`
	ID             string          `json:"id,omitempty"`
	Progress       string          `json:"progress,omitempty"`
	ProgressDetail *ProgressDetail `json:"progressDetail,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// ProgressDetail carries byte counters for a layer transfer.
type ProgressDetail struct {
	Current int64 `json:"current,omitempty"`
	Total   int64 `json:"total,omitempty"`
}

// Top is the raw shape of the process list endpoint: column titles plus one
// string row per process.
type Top struct {
	Titles    []string   `json:"Titles"`
	Processes [][]string `json:"Processes"`
}

// Process is one process row mapped onto named columns. Fields whose columns
// were absent from the daemon's ps output are empty.
type Process struct {
	User    string
	PID     string
	CPU     string
	Memory  string
	VSZ     string
	RSS     string
	TTY     string
	Stat    string
	Start   string
	Time    string
	Command string
}

// FilesystemChangeKind distinguishes the change types reported by the
// container diff endpoint.
type FilesystemChangeKind int

const (
	FileModified FilesystemChangeKind = 0
	FileAdded    FilesystemChangeKind = 1
	FileDeleted  FilesystemChangeKind = 2
)

func (k FilesystemChangeKind) String() string {
	switch k {
	case FileModified:
		return "modified"
	case FileAdded:
		return "added"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FilesystemChange is one entry from the container diff endpoint.
type FilesystemChange struct {
	Path string               `json:"Path"`
	Kind FilesystemChangeKind `json:"Kind"`
}

// SystemInfo is the daemon-wide information record.
type SystemInfo struct {
	ID                string `json:"ID"`
	Containers        int    `json:"Containers"`
	ContainersRunning int    `json:"ContainersRunning"`
	ContainersPaused  int    `json:"ContainersPaused"`
	ContainersStopped int    `json:"ContainersStopped"`
	Images            int    `json:"Images"`
	Driver            string `json:"Driver"`
	MemoryLimit       bool   `json:"MemoryLimit"`
	SwapLimit         bool   `json:"SwapLimit"`
	KernelVersion     string `json:"KernelVersion"`
	OperatingSystem   string `json:"OperatingSystem"`
	OSType            string `json:"OSType"`
	Architecture      string `json:"Architecture"`
	NCPU              int    `json:"NCPU"`
	MemTotal          int64  `json:"MemTotal"`
	Name              string `json:"Name"`
	ServerVersion     string `json:"ServerVersion"`
}

// VersionInfo is the daemon version record.
type VersionInfo struct {
	Version       string `json:"Version"`
	APIVersion    string `json:"ApiVersion"`
	MinAPIVersion string `json:"MinAPIVersion"`
	GitCommit     string `json:"GitCommit"`
	GoVersion     string `json:"GoVersion"`
	Os            string `json:"Os"`
	Arch          string `json:"Arch"`
	KernelVersion string `json:"KernelVersion"`
	BuildTime     string `json:"BuildTime"`
}

package pose

// NumLandmarks is the number of keypoints in the full-body pose model.
const NumLandmarks = 33

// Landmark is one detected keypoint in normalized coordinates: x and y
// in [0,1] relative to the frame, z an unscaled depth estimate. Values
// slightly outside [0,1] are possible under detector uncertainty and
// must be tolerated by consumers.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LandmarkSet is the pose detected in a single frame. At most one set
// exists per frame; multi-person detection is out of scope.
type LandmarkSet struct {
	Points []Landmark
}

// Edge connects two landmark indices in the skeleton topology.
type Edge struct {
	From int
	To   int
}

// Topology is the fixed skeleton edge list of the 33-point pose model,
// shared process-wide. Indices: 0-10 face, 11-22 arms and hands, 23-32
// legs and feet.
var Topology = []Edge{
	{0, 1}, {1, 2}, {2, 3}, {3, 7},
	{0, 4}, {4, 5}, {5, 6}, {6, 8},
	{9, 10},
	{11, 12},
	{11, 13}, {13, 15}, {15, 17}, {15, 19}, {15, 21}, {17, 19},
	{12, 14}, {14, 16}, {16, 18}, {16, 20}, {16, 22}, {18, 20},
	{11, 23}, {12, 24}, {23, 24},
	{23, 25}, {24, 26}, {25, 27}, {26, 28},
	{27, 29}, {28, 30}, {29, 31}, {30, 32}, {27, 31}, {28, 32},
}

package catalog

type Shape int

const (
	// ShapeList is a capped list of the most recent documents of one collection.
	ShapeList Shape = iota
	// ShapeSingleton is one object from SingletonsCollection.
	ShapeSingleton
	// ShapeComposite assembles several singletons into one object.
	ShapeComposite
)

type Part struct {
	Slot string
	Key  string
}

type Widget struct {
	ID         string
	Shape      Shape
	Collection string
	Limit      int64
	Key        string
	Parts      []Part
}

var Widgets = []Widget{
	{ID: "coffee", Shape: ShapeSingleton, Key: "coffee"},
	{ID: "weather", Shape: ShapeSingleton, Key: "weather"},
	{ID: "space", Shape: ShapeComposite, Parts: []Part{
		{Slot: "apod", Key: "apod"},
		{Slot: "epic", Key: "epic"},
		{Slot: "marsRoverPhoto", Key: "marsRoverPhoto"},
		{Slot: "marsWeather", Key: "marsWeather"},
	}},
	{ID: "tech", Shape: ShapeList, Collection: "techNews", Limit: 10},
	{ID: "youtube", Shape: ShapeList, Collection: "youtubeVideos", Limit: 6},
	{ID: "drones", Shape: ShapeList, Collection: "droneNews", Limit: 10},
	{ID: "camera", Shape: ShapeList, Collection: "cameraNews", Limit: 10},
	{ID: "games", Shape: ShapeList, Collection: "games", Limit: 10},
}

func LookupWidget(id string) (Widget, bool) {
	for _, w := range Widgets {
		if w.ID == id {
			return w, true
		}
	}
	return Widget{}, false
}

package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionCarriers = "carriers"

// CarrierDirectory resolves carrier display names from the carriers
// reference collection. Read-only: the freight core never writes here.
type CarrierDirectory struct {
	col *mongo.Collection
}

func NewCarrierDirectory(db *mongo.Database) *CarrierDirectory {
	return &CarrierDirectory{col: db.Collection(collectionCarriers)}
}

// CarrierName returns the display name for a carrier id, or an empty string
// when the carrier is not in the directory.
func (d *CarrierDirectory) CarrierName(ctx context.Context, carrierID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Name string `bson:"name"`
	}
	err := d.col.FindOne(ctx, bson.M{"_id": carrierID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", err
	}
	return doc.Name, nil
}
